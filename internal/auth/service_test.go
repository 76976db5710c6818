package auth

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

type mockRepository struct {
	patients []Patient
}

func (m *mockRepository) GetPatientByEmailAndPhone(_ context.Context, email, phone string) (*Patient, error) {
	for i := range m.patients {
		if m.patients[i].Email == email && m.patients[i].Phone == phone {
			return &m.patients[i], nil
		}
	}
	return nil, ErrPatientNotFound
}

func TestLogin(t *testing.T) {
	repo := &mockRepository{
		patients: []Patient{
			{ID: 7, LastName: "Durand", FirstName: "Alice", Email: "alice@example.fr", Phone: "0612345678"},
		},
	}
	svc := NewService(repo, zap.NewNop())

	t.Run("success", func(t *testing.T) {
		identity, err := svc.Login(context.Background(), "alice@example.fr", "0612345678")
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if identity.ID != 7 {
			t.Errorf("ID = %d, want 7", identity.ID)
		}
		if identity.Nom != "Durand" || identity.Prenom != "Alice" {
			t.Errorf("name = %s %s, want Durand Alice", identity.Nom, identity.Prenom)
		}
		if identity.Role != RolePatient {
			t.Errorf("Role = %q, want %q", identity.Role, RolePatient)
		}
	})

	t.Run("wrong phone", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "alice@example.fr", "0000000000")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("err = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "nobody@example.fr", "0612345678")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("err = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("email is case-sensitive exact match", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "ALICE@example.fr", "0612345678")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("err = %v, want ErrInvalidCredentials", err)
		}
	})
}
