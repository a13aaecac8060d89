package validate

import (
	"context"
	"testing"
)

func TestCheckCollectsAllViolations(t *testing.T) {
	rules := Rules{
		NonEmpty("name", "Name shouldn't be empty"),
		Email("email", "Email should be valid"),
		MinLength("password", "Enter a password with 6 or more characters", 6),
	}

	got := rules.Check(context.Background(), []byte(`{"email":"not-an-email","password":"abc"}`))
	if len(got) != 3 {
		t.Fatalf("got %d violations, want 3: %+v", len(got), got)
	}
	// ordered by rule order
	if got[0].Param != "name" || got[1].Param != "email" || got[2].Param != "password" {
		t.Fatalf("violations out of order: %+v", got)
	}
	if got[0].Msg != "Name shouldn't be empty" {
		t.Fatalf("unexpected message: %q", got[0].Msg)
	}
}

func TestCheckValidPayload(t *testing.T) {
	rules := Rules{
		NonEmpty("name", "Name shouldn't be empty"),
		Email("email", "Email should be valid"),
		MinLength("password", "Enter a password with 6 or more characters", 6),
	}

	got := rules.Check(context.Background(), []byte(`{"name":"Alice","email":"a@x.com","password":"longenough"}`))
	if len(got) != 0 {
		t.Fatalf("got %d violations, want 0: %+v", len(got), got)
	}
}

func TestCheckFieldRules(t *testing.T) {
	tests := []struct {
		name    string
		rule    Rule
		payload string
		valid   bool
	}{
		{"exists present", Exists("password", "password is required"), `{"password":"x"}`, true},
		{"exists missing", Exists("password", "password is required"), `{}`, false},
		{"exists null", Exists("password", "password is required"), `{"password":null}`, false},
		{"nonempty blank", NonEmpty("status", "Status is required!"), `{"status":""}`, false},
		{"nonempty ok", NonEmpty("status", "Status is required!"), `{"status":"dev"}`, true},
		{"nonempty wrong type", NonEmpty("status", "Status is required!"), `{"status":7}`, false},
		{"email ok", Email("email", "Email should be valid"), `{"email":"a@x.com"}`, true},
		{"email no at", Email("email", "Email should be valid"), `{"email":"ax.com"}`, false},
		{"email no domain dot", Email("email", "Email should be valid"), `{"email":"a@xcom"}`, false},
		{"minlength short", MinLength("password", "too short", 6), `{"password":"12345"}`, false},
		{"minlength exact", MinLength("password", "too short", 6), `{"password":"123456"}`, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Rules{tc.rule}.Check(context.Background(), []byte(tc.payload))
			if tc.valid && len(got) != 0 {
				t.Fatalf("want valid, got %+v", got)
			}
			if !tc.valid && len(got) != 1 {
				t.Fatalf("want one violation, got %+v", got)
			}
		})
	}
}

func TestCheckMalformedBody(t *testing.T) {
	rules := Rules{
		NonEmpty("text", "Text is required"),
	}

	got := rules.Check(context.Background(), []byte(`not json`))
	if len(got) != 1 || got[0].Param != "text" {
		t.Fatalf("got %+v, want one violation for text", got)
	}
}
