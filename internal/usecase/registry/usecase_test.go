package registry_test

import (
	"context"
	"errors"
	"testing"

	"edulend-backend/internal/domain/access"
	studentDomain "edulend-backend/internal/domain/student"
	"edulend-backend/internal/testutil/memstore"
	"edulend-backend/internal/usecase/registry"
)

const (
	ownerAddr    = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	verifierAddr = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	studentAddr  = "0xdddddddddddddddddddddddddddddddddddddddd"
	strangerAddr = "0xffffffffffffffffffffffffffffffffffffffff"
)

func newUsecase(t *testing.T) (*registry.Usecase, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	store.Grant(access.CapOwner, ownerAddr)
	store.Grant(access.CapVerifier, verifierAddr)
	return registry.NewUsecase(store, store.Repos().Students), store
}

func TestVerifyStudent(t *testing.T) {
	uc, _ := newUsecase(t)
	ctx := context.Background()

	dto, err := uc.VerifyStudent(ctx, verifierAddr, studentAddr)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !dto.IsVerified {
		t.Error("student not marked verified")
	}
	if dto.ReputationScore != studentDomain.DefaultReputation {
		t.Errorf("reputation = %d, want %d", dto.ReputationScore, studentDomain.DefaultReputation)
	}

	// idempotent on repeat
	again, err := uc.VerifyStudent(ctx, verifierAddr, studentAddr)
	if err != nil {
		t.Fatalf("re-verify: %v", err)
	}
	if !again.IsVerified || again.ReputationScore != dto.ReputationScore {
		t.Errorf("repeat verification changed the record: %+v", again)
	}
}

func TestVerifyStudent_RequiresVerifierRole(t *testing.T) {
	uc, _ := newUsecase(t)

	if _, err := uc.VerifyStudent(context.Background(), strangerAddr, studentAddr); !errors.Is(err, access.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if _, err := uc.GetStudent(context.Background(), studentAddr); !errors.Is(err, studentDomain.ErrNotFound) {
		t.Fatalf("record created despite rejection: %v", err)
	}
}

func TestAddVerifier(t *testing.T) {
	uc, _ := newUsecase(t)
	ctx := context.Background()
	newVerifier := "0x1111111111111111111111111111111111111111"

	if err := uc.AddVerifier(ctx, strangerAddr, newVerifier); !errors.Is(err, access.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if err := uc.AddVerifier(ctx, ownerAddr, newVerifier); err != nil {
		t.Fatalf("add verifier: %v", err)
	}
	if _, err := uc.VerifyStudent(ctx, newVerifier, studentAddr); err != nil {
		t.Fatalf("new verifier cannot verify: %v", err)
	}
}

func TestGetStudent_NotFound(t *testing.T) {
	uc, _ := newUsecase(t)
	if _, err := uc.GetStudent(context.Background(), strangerAddr); !errors.Is(err, studentDomain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
