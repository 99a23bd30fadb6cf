package gate

import "testing"

func TestThreeTapsOpenPrompt(t *testing.T) {
	var s State

	if s.RegisterTap() {
		t.Fatalf("first tap must not open the prompt")
	}
	if s.RegisterTap() {
		t.Fatalf("second tap must not open the prompt")
	}
	if remaining := s.TapsRemaining(); remaining != 1 {
		t.Fatalf("expected 1 tap remaining, got %d", remaining)
	}
	if !s.RegisterTap() {
		t.Fatalf("third tap should open the prompt")
	}
	if !s.PinPromptOpen {
		t.Fatalf("prompt should be open")
	}
	if s.TapCount != 0 {
		t.Fatalf("counter should reset when the prompt opens, got %d", s.TapCount)
	}
}

func TestPausedTapsStillCount(t *testing.T) {
	// No timeout decay: taps accumulate regardless of spacing.
	var s State
	s.RegisterTap()
	s.RegisterTap()
	if !s.RegisterTap() {
		t.Fatalf("third tap should open the prompt regardless of timing")
	}
}

func TestWrongPINKeepsPromptOpen(t *testing.T) {
	var s State
	s.RegisterTap()
	s.RegisterTap()
	s.RegisterTap()

	if s.SubmitPIN("1234") {
		t.Fatalf("wrong PIN must not unlock")
	}
	if !s.PinPromptOpen {
		t.Fatalf("prompt must stay open for retry")
	}
	if !s.SubmitPIN(Secret) {
		t.Fatalf("correct PIN should unlock after a failed attempt")
	}
	if !s.Unlocked || s.PinPromptOpen {
		t.Fatalf("unlock should close the prompt: %+v", s)
	}
}

func TestTapsIgnoredWhilePromptOpenOrUnlocked(t *testing.T) {
	var s State
	s.RegisterTap()
	s.RegisterTap()
	s.RegisterTap()
	if s.RegisterTap() {
		t.Fatalf("taps while the prompt is open must be ignored")
	}
	s.SubmitPIN(Secret)
	if s.RegisterTap() {
		t.Fatalf("taps while unlocked must be ignored")
	}
	if s.TapCount != 0 {
		t.Fatalf("ignored taps must not accumulate, got %d", s.TapCount)
	}
}

func TestCancelPromptResetsCounter(t *testing.T) {
	var s State
	s.RegisterTap()
	s.RegisterTap()
	s.RegisterTap()
	s.CancelPrompt()
	if s.PinPromptOpen || s.Unlocked {
		t.Fatalf("cancel must close the prompt without unlocking: %+v", s)
	}
	if s.SubmitPIN(Secret) {
		t.Fatalf("PIN submission with no open prompt must not unlock")
	}
}

func TestLockResetsEverything(t *testing.T) {
	var s State
	s.RegisterTap()
	s.RegisterTap()
	s.RegisterTap()
	s.SubmitPIN(Secret)
	s.Lock()
	if s.Unlocked || s.PinPromptOpen || s.TapCount != 0 {
		t.Fatalf("lock should return to the zero state: %+v", s)
	}
	// The full tap sequence is required again after re-locking.
	s.RegisterTap()
	if s.PinPromptOpen {
		t.Fatalf("one tap after re-lock must not open the prompt")
	}
}
