package utils

import "testing"

func TestJwtRoundTrip(t *testing.T) {
	token, err := JwtGenerate(42, "manager")
	if err != nil {
		t.Fatalf("JwtGenerate: %v", err)
	}

	parsed, err := JwtValidate(token)
	if err != nil {
		t.Fatalf("JwtValidate: %v", err)
	}
	if !parsed.Valid {
		t.Fatal("token should be valid")
	}

	claim, ok := parsed.Claims.(*JwtCustomClaim)
	if !ok {
		t.Fatal("claims should be JwtCustomClaim")
	}
	if claim.ID != 42 {
		t.Fatalf("id expected 42, got %d", claim.ID)
	}
	if claim.Role != "manager" {
		t.Fatalf("role expected manager, got %s", claim.Role)
	}
}

func TestJwtValidate_RejectsGarbage(t *testing.T) {
	if _, err := JwtValidate("not-a-token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}
