package auth

import (
	"errors"
	"net/http"
	"testing"

	"github.com/doracare/murshid/internal/app/gateway"
)

func TestLoginFailureMessage(t *testing.T) {
	cases := []struct {
		name        string
		err         error
		want        string
		serviceDown bool
	}{
		{
			name: "rate limited gets its own message over the payload",
			err:  &gateway.Error{Status: http.StatusTooManyRequests, Message: "slow down"},
			want: "Too many sign-in attempts. Please wait a few minutes and try again.",
		},
		{
			name: "bad credentials surface the service wording",
			err:  &gateway.Error{Status: http.StatusUnauthorized, Message: "invalid credentials"},
			want: "invalid credentials",
		},
		{
			name: "4xx without wording falls back",
			err:  &gateway.Error{Status: http.StatusBadRequest},
			want: "Invalid email or password.",
		},
		{
			name:        "5xx reads as an outage",
			err:         &gateway.Error{Status: http.StatusBadGateway},
			want:        "Sign-in is unavailable right now. Please try again.",
			serviceDown: true,
		},
		{
			name:        "transport failure reads as an outage",
			err:         errors.New("connection refused"),
			want:        "Sign-in is unavailable right now. Please try again.",
			serviceDown: true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg, serviceDown := loginFailureMessage(tc.err)
			if msg != tc.want {
				t.Errorf("message: got %q, want %q", msg, tc.want)
			}
			if serviceDown != tc.serviceDown {
				t.Errorf("serviceDown: got %v, want %v", serviceDown, tc.serviceDown)
			}
		})
	}
}

func TestRegisterFailureMessage(t *testing.T) {
	msg, serviceDown := registerFailureMessage(&gateway.Error{Status: http.StatusTooManyRequests})
	if msg != "Too many registration attempts. Please wait a few minutes and try again." {
		t.Errorf("429 message: got %q", msg)
	}
	if serviceDown {
		t.Error("a throttled attempt is not a service failure")
	}

	msg, _ = registerFailureMessage(&gateway.Error{Status: http.StatusConflict, Message: "email already registered"})
	if msg != "email already registered" {
		t.Errorf("conflict message: got %q", msg)
	}
}
