package http

import (
	"net/http"

	"expense-tracker/internal/core"
	applog "expense-tracker/internal/log"
	"expense-tracker/internal/services"
)

// formPage is the data of form.html.
type formPage struct {
	Form           ExpenseForm
	Editing        bool
	Categories     []core.Category
	PaymentMethods []core.PaymentMethod
	Error          string
}

func (s *Server) newFormPage(f ExpenseForm, banner string) formPage {
	return formPage{
		Form:           f,
		Editing:        f.Mode == ModeUpdate,
		Categories:     core.Categories(),
		PaymentMethods: core.PaymentMethods(),
		Error:          banner,
	}
}

func (s *Server) handleNewExpense(w http.ResponseWriter, r *http.Request) {
	form := NewExpenseForm(core.DateOf(s.now()))
	s.render(w, r, http.StatusOK, "form.html", s.newFormPage(form, ""))
}

func (s *Server) handleEditExpense(w http.ResponseWriter, r *http.Request) {
	id := sanitizeInput(r.PathValue("id"))
	res := s.svc.Get(r.Context(), id)
	switch {
	case res.OK():
		s.render(w, r, http.StatusOK, "form.html", s.newFormPage(FormFromExpense(res.Value), ""))
	case res.Reason == services.ReasonNotFound:
		s.renderIndex(w, r, http.StatusNotFound, msgNotFound)
	default:
		s.events.LogError(r.Context(), "Failed to load expense", res.Err, applog.OpRead,
			applog.NewFields().WithExpenseID(id))
		s.renderIndex(w, r, http.StatusServiceUnavailable, msgLoadFailed)
	}
}

// handleSaveExpense creates the record when mode=create and replaces it
// otherwise.
func (s *Server) handleSaveExpense(w http.ResponseWriter, r *http.Request) {
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}
	form := ParseExpenseForm(r.PostForm)

	exp, err := form.Expense()
	if err != nil {
		s.render(w, r, http.StatusUnprocessableEntity, "form.html", s.newFormPage(form, "Invalid data: "+err.Error()))
		return
	}

	var res services.Result[core.Expense]
	op := applog.OpUpdate
	if form.Mode == ModeCreate {
		op = applog.OpCreate
		res = s.svc.Create(r.Context(), exp)
	} else {
		res = s.svc.Update(r.Context(), exp)
	}

	switch res.Reason {
	case services.ReasonNone:
		s.events.LogExpenseSaved(r.Context(), op, exp.ID, exp.Amount.Fixed(),
			exp.Category.String(), exp.PaymentMethod.String(), exp.Date.String())
		NewResponse().Redirect("/").Write(w)
	case services.ReasonValidation:
		s.render(w, r, http.StatusUnprocessableEntity, "form.html", s.newFormPage(form, "Invalid data: "+res.Err.Error()))
	case services.ReasonNotFound:
		s.render(w, r, http.StatusNotFound, "form.html", s.newFormPage(form, msgNotFound))
	default:
		s.events.LogError(r.Context(), "Failed to save expense", res.Err, op,
			applog.NewFields().WithExpense(exp.ID, exp.Amount.Fixed(), exp.Category.String(),
				exp.PaymentMethod.String(), exp.Date.String()))
		s.render(w, r, http.StatusInternalServerError, "form.html", s.newFormPage(form, msgSaveFailed))
	}
}

// handleDeleteExpense answers DELETE with 204 and the form post with a
// redirect back to the list.
func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := sanitizeInput(r.PathValue("id"))
	res := s.svc.Delete(r.Context(), id)
	isAPI := r.Method == http.MethodDelete

	switch res.Reason {
	case services.ReasonNone:
		s.events.LogExpenseDeleted(r.Context(), id)
		if isAPI {
			NewResponse().Status(http.StatusNoContent).Write(w)
			return
		}
		NewResponse().Redirect("/").Write(w)
	case services.ReasonNotFound, services.ReasonValidation:
		if isAPI {
			JSONError(http.StatusNotFound, msgNotFound).Write(w)
			return
		}
		s.renderIndex(w, r, http.StatusNotFound, msgNotFound)
	default:
		s.events.LogError(r.Context(), "Failed to delete expense", res.Err, applog.OpDelete,
			applog.NewFields().WithExpenseID(id))
		if isAPI {
			JSONError(http.StatusInternalServerError, msgDeleteFailed).Write(w)
			return
		}
		s.renderIndex(w, r, http.StatusInternalServerError, msgDeleteFailed)
	}
}
