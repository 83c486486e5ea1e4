package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gestor/internal/rut"
)

// Status prints the current session.
func (a *App) Status(_ context.Context) error {
	s := a.session.Snapshot()
	if !s.IsAuthenticated {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}

	u := s.CurrentUser
	fmt.Fprintf(a.out, "User:      %s <%s>\n", u.Name, u.Email)
	if !u.Confirmed {
		fmt.Fprintln(a.out, "           email not confirmed")
	}
	if s.IsSuperAdmin {
		fmt.Fprintln(a.out, "Role:      superadmin")
	}

	switch {
	case s.BusinessDetail != nil:
		b := s.BusinessDetail
		if b.Rut != "" {
			fmt.Fprintf(a.out, "Business:  %s (%s)\n", b.Name, displayRut(b.Rut))
		} else {
			fmt.Fprintf(a.out, "Business:  %s\n", b.Name)
		}
		fmt.Fprintf(a.out, "Role:      %s\n", s.Role())
	case s.PrimaryBusinessLink != nil:
		fmt.Fprintf(a.out, "Business:  %s\n", s.PrimaryBusinessLink.BusinessID)
		fmt.Fprintf(a.out, "Role:      %s\n", s.Role())
	default:
		fmt.Fprintln(a.out, "Business:  none")
	}

	if s.PrimaryBusinessLink != nil {
		if sub, ok := s.ActiveSubscription(a.now()); ok {
			fmt.Fprintf(a.out, "Plan:      %s\n", sub.Plan)
		} else {
			fmt.Fprintln(a.out, "Plan:      no active subscription")
		}
	}

	if n := len(s.PendingGuestInvitations); n > 0 {
		fmt.Fprintf(a.out, "Invites:   %d pending\n", n)
	}
	if len(s.FailedSteps) > 0 {
		fmt.Fprintf(a.out, "Warning:   could not load %s\n", strings.Join(s.FailedSteps, ", "))
	}
	return nil
}

// CheckRut validates raw and prints its canonical and display forms.
func (a *App) CheckRut(_ context.Context, raw string) error {
	canonical, err := rut.Validate(raw)
	if err != nil {
		fmt.Fprintf(a.out, "%q is not a valid RUT\n", raw)
		return err
	}
	formatted, _ := rut.Format(canonical)
	fmt.Fprintf(a.out, "%s is valid (%s)\n", formatted, canonical)
	return nil
}

// displayRut renders a stored tax id for humans, falling back to the raw
// value when it does not validate.
func displayRut(raw string) string {
	if f, err := rut.Format(raw); err == nil {
		return f
	}
	return raw
}
