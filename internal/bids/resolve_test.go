package bids

import "testing"

func TestAuthorizeResolve_HirerActions(t *testing.T) {
	hirer := "11111111-1111-1111-1111-111111111111"
	worker := "22222222-2222-2222-2222-222222222222"

	for _, action := range []string{ActionAccept, ActionReject} {
		if err := authorizeResolve(action, hirer, hirer, worker); err != nil {
			t.Fatalf("hirer should be allowed to %s, got %v", action, err)
		}
		if err := authorizeResolve(action, worker, hirer, worker); err != errForbidden {
			t.Fatalf("worker attempting %s: expected errForbidden, got %v", action, err)
		}
	}
}

func TestAuthorizeResolve_Withdraw(t *testing.T) {
	hirer := "11111111-1111-1111-1111-111111111111"
	worker := "22222222-2222-2222-2222-222222222222"

	if err := authorizeResolve(ActionWithdraw, worker, hirer, worker); err != nil {
		t.Fatalf("worker should be allowed to withdraw, got %v", err)
	}
	if err := authorizeResolve(ActionWithdraw, hirer, hirer, worker); err != errForbidden {
		t.Fatalf("hirer attempting withdraw: expected errForbidden, got %v", err)
	}
}

func TestAuthorizeResolve_UnknownAction(t *testing.T) {
	if err := authorizeResolve("approve", "a", "a", "b"); err != errUnknownAction {
		t.Fatalf("expected errUnknownAction, got %v", err)
	}
}

func TestAuthorizeResolve_Outsider(t *testing.T) {
	hirer := "11111111-1111-1111-1111-111111111111"
	worker := "22222222-2222-2222-2222-222222222222"
	outsider := "33333333-3333-3333-3333-333333333333"

	for _, action := range []string{ActionAccept, ActionReject, ActionWithdraw} {
		if err := authorizeResolve(action, outsider, hirer, worker); err != errForbidden {
			t.Fatalf("outsider attempting %s: expected errForbidden, got %v", action, err)
		}
	}
}
