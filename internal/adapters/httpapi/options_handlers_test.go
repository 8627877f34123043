package httpapi

import (
	"net/http"
	"testing"
)

func TestOptions_CreateListDelete(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)

	rr := api.doJSON(t, fullEditor, http.MethodPost, "/vehicle-options", map[string]any{"type": "status", "value": "On Loan"})
	requireErrorCode(t, rr, http.StatusForbidden, "FORBIDDEN")

	rr = api.doJSON(t, admin, http.MethodPost, "/vehicle-options", map[string]any{"type": "status", "value": "On Loan"})
	requireStatus(t, rr, http.StatusCreated)
	created := mustUnmarshal[struct {
		Option optionJSON `json:"option"`
	}](t, rr).Option

	rr = api.doJSON(t, admin, http.MethodPost, "/vehicle-options", map[string]any{"type": "status", "value": "on loan"})
	requireErrorCode(t, rr, http.StatusConflict, "OPTION_ALREADY_EXISTS")

	rr = api.do(t, memberEditor, http.MethodGet, "/vehicle-options?type=status", nil, nil)
	requireStatus(t, rr, http.StatusOK)
	list := mustUnmarshal[struct {
		Options []optionJSON `json:"options"`
	}](t, rr).Options
	if len(list) != 1 || list[0].Value != "On Loan" {
		t.Fatalf("options=%+v", list)
	}

	rr = api.do(t, memberEditor, http.MethodGet, "/vehicle-options?type=colour", nil, nil)
	requireErrorCode(t, rr, http.StatusUnprocessableEntity, "VALIDATION_ERROR")

	rr = api.do(t, admin, http.MethodDelete, "/vehicle-options/"+created.ID, nil, nil)
	requireStatus(t, rr, http.StatusNoContent)
	rr = api.do(t, admin, http.MethodDelete, "/vehicle-options/"+created.ID, nil, nil)
	requireErrorCode(t, rr, http.StatusNotFound, "OPTION_NOT_FOUND")
}
