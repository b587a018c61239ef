package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/baticonnect/portal/internal/core/domain"
)

func TestValidator_RegisterForm(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name string
		form registerForm
		want []string
	}{
		{
			name: "client needs no trade fields",
			form: registerForm{Role: "client", Username: "awa", Email: "awa@example.com", City: "Cotonou", Password: "pw"},
		},
		{
			name: "provider without specialty",
			form: registerForm{Role: "prestataire", Username: "moussa", Email: "m@example.com", City: "Cotonou", Password: "pw"},
			want: []string{"specialty is required"},
		},
		{
			name: "supplier without shop name",
			form: registerForm{Role: "fournisseur", Username: "koffi", Email: "k@example.com", City: "Porto-Novo", Password: "pw"},
			want: []string{"shop name is required"},
		},
		{
			name: "bad email and missing city",
			form: registerForm{Role: "client", Username: "awa", Email: "awa", Password: "pw"},
			want: []string{"email must be a valid email", "city is required"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.form)
			if len(tt.want) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var fe *FormError
			if !errors.As(err, &fe) {
				t.Fatalf("expected FormError, got %v", err)
			}
			for _, msg := range tt.want {
				if !strings.Contains(fe.Error(), msg) {
					t.Fatalf("expected %q in %q", msg, fe.Error())
				}
			}
		})
	}
}

func TestValidator_SendForm(t *testing.T) {
	err := NewValidator().Validate(&sendForm{ContactID: 0, Content: "hi"})
	if err == nil || !strings.Contains(err.Error(), "contact id must be greater than 0") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{&FormError{Messages: []string{"x"}}, http.StatusUnprocessableEntity},
		{domain.ErrInvalidCredentials, http.StatusUnprocessableEntity},
		{fmt.Errorf("wrap: %w", &domain.APIError{Kind: domain.KindUnauthorized}), http.StatusUnauthorized},
		{&domain.APIError{Kind: domain.KindForbidden}, http.StatusForbidden},
		{&domain.APIError{Kind: domain.KindNotFound}, http.StatusNotFound},
		{&domain.APIError{Kind: domain.KindValidation}, http.StatusUnprocessableEntity},
		{&domain.APIError{Kind: domain.KindUnreachable}, http.StatusBadGateway},
		{&domain.APIError{Kind: domain.KindMalformed}, http.StatusBadGateway},
		{domain.ErrNotOwner, http.StatusForbidden},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Fatalf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestFeedURL(t *testing.T) {
	if got := feedURL("", "all"); got != "/" {
		t.Fatalf("expected /, got %q", got)
	}
	got := feedURL("maçon cotonou", "provider")
	if !strings.HasPrefix(got, "/?") || !strings.Contains(got, "category=provider") || !strings.Contains(got, "q=ma%C3%A7on+cotonou") {
		t.Fatalf("unexpected url %q", got)
	}
}
