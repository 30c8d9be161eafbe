package controller

import (
	"context"
	"errors"

	"github.com/Evgen-Mutagen/atm/internal/model"
	"go.uber.org/zap"
)

func (m *Menu) Register(ctx context.Context) {
	var reg model.Registration
	fields := []struct {
		text string
		dst  *string
	}{
		{"Your name: ", &reg.Name},
		{"Your age: ", &reg.Age},
		{"Male (1) or female (0): ", &reg.Sex},
		{"Phone number: ", &reg.Phone},
		{"Choose a PIN (4 digits): ", &reg.Pin},
	}
	for _, f := range fields {
		answer, ok := m.prompt(ctx, f.text)
		if !ok {
			return
		}
		*f.dst = answer
	}

	id, err := m.accounts.Register(ctx, reg)
	if err != nil {
		m.report(err)
		return
	}

	m.logger.Debug("Registration finished", zap.Int64("client_id", id))
	m.println("Registration successful!")
}

// Login opens a session and runs the session menu until logout. It returns
// false when input ended inside the session.
func (m *Menu) Login(ctx context.Context) bool {
	phone, ok := m.prompt(ctx, "Phone number: ")
	if !ok {
		return false
	}
	pin, ok := m.prompt(ctx, "PIN: ")
	if !ok {
		return false
	}

	session, err := m.auth.Login(ctx, phone, pin)
	if err != nil {
		m.report(err)
		return true
	}

	m.println("Logged in.")
	return m.runSession(ctx, *session)
}

func (m *Menu) runSession(ctx context.Context, session model.Session) bool {
	actions := map[string]func(ctx context.Context, session model.Session) error{
		"1": m.viewBalance,
		"2": m.deposit,
		"3": m.withdraw,
	}

	for {
		choice, ok := m.prompt(ctx, sessionMenu)
		if !ok {
			return false
		}
		if choice == "4" {
			m.println("Logged out, back to the main menu.")
			return true
		}

		action, known := actions[choice]
		if !known {
			m.println("Unknown choice, try again.")
			continue
		}

		if err := m.guard(action)(ctx, session); err != nil {
			if errors.Is(err, errInputClosed) {
				return false
			}
			m.report(err)
			if isSessionFatal(err) {
				return true
			}
		}
	}
}
