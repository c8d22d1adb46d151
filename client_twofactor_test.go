package goSession

import (
	"context"
	"errors"
	"testing"

	"github.com/MrEthical07/goSession/twofactor"
)

func TestTwoFactorEnrollmentHappyPath(t *testing.T) {
	stub := newIdentityStub(t)
	client, _ := signedInClient(t, stub)

	setup, err := client.BeginTwoFactorSetup(context.Background())
	if err != nil {
		t.Fatalf("begin setup failed: %v", err)
	}
	if setup.Secret == "" || len(setup.BackupCodes) == 0 {
		t.Fatalf("incomplete setup material: %+v", setup)
	}

	if step, err := client.TwoFactorSetupStep(); err != nil || step != twofactor.StepVerify {
		t.Fatalf("expected verify step, got %v (%v)", step, err)
	}

	if err := client.VerifyTwoFactorCode(context.Background(), "123456"); err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !client.State().User.TwoFactorEnabled {
		t.Fatal("snapshot must mark two-factor enabled after verification")
	}
	if step, err := client.TwoFactorSetupStep(); err != nil || step != twofactor.StepComplete {
		t.Fatalf("expected complete step, got %v (%v)", step, err)
	}

	if err := client.AcknowledgeTwoFactorSetup(); err != nil {
		t.Fatalf("acknowledge failed: %v", err)
	}
	if _, err := client.TwoFactorSetupStep(); !errors.Is(err, ErrNoActiveEnrollment) {
		t.Fatalf("enrollment must be gone after acknowledge, got %v", err)
	}
}

func TestVerifyTwoFactorCodeFormatGateBeforeNetwork(t *testing.T) {
	stub := newIdentityStub(t)
	client, _ := signedInClient(t, stub)

	if _, err := client.BeginTwoFactorSetup(context.Background()); err != nil {
		t.Fatalf("begin setup failed: %v", err)
	}

	for _, code := range []string{"123", "1234567", "12a456", ""} {
		if err := client.VerifyTwoFactorCode(context.Background(), code); !errors.Is(err, ErrTwoFactorCodeFormat) {
			t.Fatalf("code %q: expected ErrTwoFactorCodeFormat, got %v", code, err)
		}
	}

	_, _, _, _, verify := stub.counts()
	if verify != 0 {
		t.Fatalf("malformed codes must never reach the server, got %d calls", verify)
	}
}

func TestVerifyTwoFactorCodeServerRejectionKeepsVerifyStep(t *testing.T) {
	stub := newIdentityStub(t)
	client, _ := signedInClient(t, stub)

	if _, err := client.BeginTwoFactorSetup(context.Background()); err != nil {
		t.Fatalf("begin setup failed: %v", err)
	}

	if err := client.VerifyTwoFactorCode(context.Background(), "654321"); err == nil {
		t.Fatal("expected rejection for wrong code")
	}
	if step, err := client.TwoFactorSetupStep(); err != nil || step != twofactor.StepVerify {
		t.Fatalf("rejection must keep the verify step, got %v (%v)", step, err)
	}

	// A second attempt with the right code still succeeds.
	if err := client.VerifyTwoFactorCode(context.Background(), "123456"); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
}

func TestVerifyTwoFactorCodeWithoutEnrollment(t *testing.T) {
	stub := newIdentityStub(t)
	client, _ := signedInClient(t, stub)

	if err := client.VerifyTwoFactorCode(context.Background(), "123456"); !errors.Is(err, ErrNoActiveEnrollment) {
		t.Fatalf("expected ErrNoActiveEnrollment, got %v", err)
	}
}

func TestBackTwoFactorSetupDiscardsMaterial(t *testing.T) {
	stub := newIdentityStub(t)
	client, _ := signedInClient(t, stub)

	if _, err := client.BeginTwoFactorSetup(context.Background()); err != nil {
		t.Fatalf("begin setup failed: %v", err)
	}
	if err := client.BackTwoFactorSetup(); err != nil {
		t.Fatalf("back failed: %v", err)
	}
	if step, err := client.TwoFactorSetupStep(); err != nil || step != twofactor.StepSetup {
		t.Fatalf("expected setup step after back, got %v (%v)", step, err)
	}

	// Verification is impossible until fresh material is provisioned.
	if err := client.VerifyTwoFactorCode(context.Background(), "123456"); !errors.Is(err, ErrNoActiveEnrollment) {
		t.Fatalf("expected ErrNoActiveEnrollment after back, got %v", err)
	}
}

func TestCancelTwoFactorSetup(t *testing.T) {
	stub := newIdentityStub(t)
	client, _ := signedInClient(t, stub)

	if _, err := client.BeginTwoFactorSetup(context.Background()); err != nil {
		t.Fatalf("begin setup failed: %v", err)
	}
	client.CancelTwoFactorSetup()
	if _, err := client.TwoFactorSetupStep(); !errors.Is(err, ErrNoActiveEnrollment) {
		t.Fatalf("expected no enrollment after cancel, got %v", err)
	}
}

func TestBeginTwoFactorSetupRequiresAuthentication(t *testing.T) {
	stub := newIdentityStub(t)
	client := newTestClient(t, stub, nil)

	if _, err := client.BeginTwoFactorSetup(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestDisableTwoFactorRequiresPassword(t *testing.T) {
	stub := newIdentityStub(t)
	client, _ := signedInClient(t, stub)

	if err := client.DisableTwoFactor(context.Background(), "", "123456"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestDisableTwoFactorClearsFlag(t *testing.T) {
	stub := newIdentityStub(t)
	client, _ := signedInClient(t, stub)

	if _, err := client.BeginTwoFactorSetup(context.Background()); err != nil {
		t.Fatalf("begin setup failed: %v", err)
	}
	if err := client.VerifyTwoFactorCode(context.Background(), "123456"); err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	if err := client.DisableTwoFactor(context.Background(), "Aa1!aaaa", "123456"); err != nil {
		t.Fatalf("disable failed: %v", err)
	}
	if client.State().User.TwoFactorEnabled {
		t.Fatal("snapshot must clear the two-factor flag after disable")
	}
}

func TestRegenerateBackupCodes(t *testing.T) {
	stub := newIdentityStub(t)
	client, _ := signedInClient(t, stub)

	codes, err := client.RegenerateBackupCodes(context.Background(), "123456")
	if err != nil {
		t.Fatalf("regenerate failed: %v", err)
	}
	if len(codes) != 2 {
		t.Fatalf("unexpected code count: %d", len(codes))
	}

	if _, err := client.RegenerateBackupCodes(context.Background(), "12x456"); !errors.Is(err, ErrTwoFactorCodeFormat) {
		t.Fatalf("expected format gate, got %v", err)
	}
}
