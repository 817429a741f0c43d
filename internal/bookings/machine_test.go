package bookings

import (
	"reflect"
	"testing"
)

func TestTransitionTable_Edges(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{StatusConfirmed, StatusInProgress, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusCompleted, false},
		{StatusConfirmed, StatusDisputed, false},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusCancelled, true},
		{StatusInProgress, StatusDisputed, true},
		{StatusInProgress, StatusConfirmed, false},
		{StatusDisputed, StatusCompleted, true},
		{StatusDisputed, StatusCancelled, true},
		{StatusDisputed, StatusInProgress, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusInProgress, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCancelled, StatusCompleted, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestTransitionTable_TerminalStates(t *testing.T) {
	for _, terminal := range []string{StatusCompleted, StatusCancelled} {
		if got := AllowedNext(terminal); len(got) != 0 {
			t.Errorf("AllowedNext(%s) = %v, want empty", terminal, got)
		}
	}
}

func TestAllowedNext_Confirmed(t *testing.T) {
	want := []string{StatusInProgress, StatusCancelled}
	if got := AllowedNext(StatusConfirmed); !reflect.DeepEqual(got, want) {
		t.Fatalf("AllowedNext(confirmed) = %v, want %v", got, want)
	}
}

func TestAllowedNext_UnknownStatus(t *testing.T) {
	if got := AllowedNext("shipped"); got != nil {
		t.Fatalf("AllowedNext(shipped) = %v, want nil", got)
	}
}

func TestAllowedNext_ReturnsCopy(t *testing.T) {
	got := AllowedNext(StatusInProgress)
	got[0] = "mutated"
	if AllowedNext(StatusInProgress)[0] == "mutated" {
		t.Fatal("AllowedNext leaked the internal slice")
	}
}

func TestAuthorizeTransition_ParticipantsOnly(t *testing.T) {
	hirer := "11111111-1111-1111-1111-111111111111"
	worker := "22222222-2222-2222-2222-222222222222"
	outsider := "33333333-3333-3333-3333-333333333333"

	if err := authorizeTransition(StatusInProgress, worker, hirer, worker); err != nil {
		t.Fatalf("worker starting work: expected nil, got %v", err)
	}
	if err := authorizeTransition(StatusCancelled, hirer, hirer, worker); err != nil {
		t.Fatalf("hirer cancelling: expected nil, got %v", err)
	}
	if err := authorizeTransition(StatusInProgress, outsider, hirer, worker); err != errNotParticipant {
		t.Fatalf("outsider: expected errNotParticipant, got %v", err)
	}
}

func TestAuthorizeTransition_CompleteIsHirerOnly(t *testing.T) {
	hirer := "11111111-1111-1111-1111-111111111111"
	worker := "22222222-2222-2222-2222-222222222222"

	if err := authorizeTransition(StatusCompleted, hirer, hirer, worker); err != nil {
		t.Fatalf("hirer completing: expected nil, got %v", err)
	}
	if err := authorizeTransition(StatusCompleted, worker, hirer, worker); err != errHirerOnly {
		t.Fatalf("worker completing: expected errHirerOnly, got %v", err)
	}
}

func TestSettlementAmount(t *testing.T) {
	override := 120.50
	if got := settlementAmount(&override, 150.00); got != 120.50 {
		t.Fatalf("settlementAmount with override = %v, want 120.50", got)
	}
	if got := settlementAmount(nil, 150.00); got != 150.00 {
		t.Fatalf("settlementAmount without override = %v, want 150.00", got)
	}
}
