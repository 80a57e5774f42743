package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/example/grantmatch/database"
	domain "github.com/example/grantmatch/domain/catalog"
	"gorm.io/gorm"
)

func setupTestService(t *testing.T) *Service {
	t.Helper()
	db, err := database.Open(":memory:",
		&domain.Startup{},
		&domain.Program{},
		&domain.Grant{},
		&domain.GrantQuestions{},
	)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	return NewService(
		NewRepository[domain.Startup](db),
		NewRepository[domain.Program](db),
		NewRepository[domain.Grant](db),
		NewRepository[domain.GrantQuestions](db),
	)
}

func ptr[T any](v T) *T { return &v }

func TestService_CreateStartupAssignsPublicID(t *testing.T) {
	ctx := context.Background()
	svc := setupTestService(t)

	first, err := svc.CreateStartup(ctx, StartupInput{Industry: ptr("Технологии")})
	if err != nil {
		t.Fatalf("CreateStartup() error = %v", err)
	}
	second, err := svc.CreateStartup(ctx, StartupInput{TeamSize: ptr(5)})
	if err != nil {
		t.Fatalf("CreateStartup() error = %v", err)
	}

	if got := *first.StartupID; got != "S-1" {
		t.Errorf("StartupID = %v, want %v", got, "S-1")
	}
	if got := *second.StartupID; got != "S-2" {
		t.Errorf("StartupID = %v, want %v", got, "S-2")
	}

	stored, err := svc.GetStartup(ctx, second.ID)
	if err != nil {
		t.Fatalf("GetStartup() error = %v", err)
	}
	if stored.StartupID == nil || *stored.StartupID != "S-2" {
		t.Errorf("stored StartupID = %v, want S-2", stored.StartupID)
	}
}

func TestService_CreateStartupRollsBackWithoutPublicID(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(":memory:", &domain.Startup{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	errWrite := errors.New("disk full")
	err = db.Callback().Update().Before("gorm:update").Register("test:fail_update", func(tx *gorm.DB) {
		_ = tx.AddError(errWrite)
	})
	if err != nil {
		t.Fatalf("failed to register callback: %v", err)
	}

	startups := NewRepository[domain.Startup](db)
	svc := NewService(startups, nil, nil, nil)

	if _, err := svc.CreateStartup(ctx, StartupInput{Industry: ptr("Технологии")}); !errors.Is(err, errWrite) {
		t.Fatalf("CreateStartup() error = %v, want %v", err, errWrite)
	}

	records, err := startups.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("len(records) = %v, want 0 after rollback", len(records))
	}
}

func TestService_CreateStartupRequiresAField(t *testing.T) {
	svc := setupTestService(t)

	if _, err := svc.CreateStartup(context.Background(), StartupInput{}); !errors.Is(err, ErrEmptyRecord) {
		t.Errorf("CreateStartup() error = %v, want %v", err, ErrEmptyRecord)
	}
}

func TestService_UpdateAndDeleteStartup(t *testing.T) {
	ctx := context.Background()
	svc := setupTestService(t)

	startup, err := svc.CreateStartup(ctx, StartupInput{Stage: ptr("Идея"), Description: ptr("old")})
	if err != nil {
		t.Fatalf("CreateStartup() error = %v", err)
	}

	updated, err := svc.UpdateStartup(ctx, startup.ID, StartupInput{Description: ptr("new")})
	if err != nil {
		t.Fatalf("UpdateStartup() error = %v", err)
	}
	if *updated.Description != "new" {
		t.Errorf("Description = %v, want %v", *updated.Description, "new")
	}
	if *updated.Stage != "Идея" {
		t.Errorf("Stage = %v, want unchanged %v", *updated.Stage, "Идея")
	}

	if err := svc.DeleteStartup(ctx, startup.ID); err != nil {
		t.Fatalf("DeleteStartup() error = %v", err)
	}

	tests := []struct {
		name string
		err  error
	}{
		{"get", func() error { _, err := svc.GetStartup(ctx, startup.ID); return err }()},
		{"update", func() error { _, err := svc.UpdateStartup(ctx, startup.ID, StartupInput{Stage: ptr("x")}); return err }()},
		{"delete", svc.DeleteStartup(ctx, startup.ID)},
	}
	for _, tt := range tests {
		if !errors.Is(tt.err, ErrStartupNotFound) {
			t.Errorf("%s after delete error = %v, want %v", tt.name, tt.err, ErrStartupNotFound)
		}
		if !errors.Is(tt.err, ErrNotFound) {
			t.Errorf("%s after delete error = %v, want it to wrap %v", tt.name, tt.err, ErrNotFound)
		}
	}
}

func TestService_Programs(t *testing.T) {
	ctx := context.Background()
	svc := setupTestService(t)

	for _, title := range []string{"Старт", "Развитие", "Коммерциализация"} {
		if _, err := svc.CreateProgram(ctx, ProgramInput{Title: ptr(title), Description: ptr(title + " description")}); err != nil {
			t.Fatalf("CreateProgram() error = %v", err)
		}
	}

	all, err := svc.AllPrograms(ctx)
	if err != nil {
		t.Fatalf("AllPrograms() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len(AllPrograms()) = %v, want %v", len(all), 3)
	}
	if all[0].Title != "Старт" {
		t.Errorf("AllPrograms()[0].Title = %v, want %v", all[0].Title, "Старт")
	}

	page, err := svc.ListPrograms(ctx, 2, 2)
	if err != nil {
		t.Fatalf("ListPrograms() error = %v", err)
	}
	if len(page.Data) != 1 || page.HasMore || page.TotalCount != 3 {
		t.Errorf("ListPrograms(2, 2) = %+v", page)
	}

	if _, err := svc.CreateProgram(ctx, ProgramInput{}); !errors.Is(err, ErrEmptyRecord) {
		t.Errorf("CreateProgram() error = %v, want %v", err, ErrEmptyRecord)
	}
	if _, err := svc.GetProgram(ctx, 99); !errors.Is(err, ErrProgramNotFound) {
		t.Errorf("GetProgram() error = %v, want %v", err, ErrProgramNotFound)
	}
}

func TestService_Grants(t *testing.T) {
	ctx := context.Background()
	svc := setupTestService(t)

	grant, err := svc.CreateGrant(ctx, domain.Grant{ID: 42, Title: "Грант", GrantMax: ptr(int64(5000000))})
	if err != nil {
		t.Fatalf("CreateGrant() error = %v", err)
	}
	if grant.ID != 1 {
		t.Errorf("grant.ID = %v, want client ID ignored", grant.ID)
	}

	if _, err := svc.CreateGrant(ctx, domain.Grant{Title: "  "}); !errors.Is(err, ErrTitleRequired) {
		t.Errorf("CreateGrant() error = %v, want %v", err, ErrTitleRequired)
	}

	page, err := svc.ListGrants(ctx, 1, 10)
	if err != nil {
		t.Fatalf("ListGrants() error = %v", err)
	}
	if page.TotalCount != 1 {
		t.Errorf("TotalCount = %v, want %v", page.TotalCount, 1)
	}
}

func TestService_QuestionsOwnership(t *testing.T) {
	ctx := context.Background()
	svc := setupTestService(t)

	if _, err := svc.ListUserQuestions(ctx, "alice-id"); !errors.Is(err, ErrQuestionsNotFound) {
		t.Errorf("ListUserQuestions() error = %v, want %v", err, ErrQuestionsNotFound)
	}

	q, err := svc.CreateQuestions(ctx, "alice-id", QuestionsInput{GrantPurpose: ptr("R&D"), OKVEDCodes: ptr("62.01")})
	if err != nil {
		t.Fatalf("CreateQuestions() error = %v", err)
	}

	list, err := svc.ListUserQuestions(ctx, "alice-id")
	if err != nil {
		t.Fatalf("ListUserQuestions() error = %v", err)
	}
	if len(list) != 1 {
		t.Errorf("len(ListUserQuestions()) = %v, want %v", len(list), 1)
	}

	if _, err := svc.UpdateQuestions(ctx, "bob-id", q.ID, QuestionsInput{GrantPurpose: ptr("x")}); !errors.Is(err, ErrNotOwner) {
		t.Errorf("UpdateQuestions(other) error = %v, want %v", err, ErrNotOwner)
	}
	if err := svc.DeleteQuestions(ctx, "bob-id", q.ID); !errors.Is(err, ErrNotOwner) {
		t.Errorf("DeleteQuestions(other) error = %v, want %v", err, ErrNotOwner)
	}

	updated, err := svc.UpdateQuestions(ctx, "alice-id", q.ID, QuestionsInput{BusinessSize: ptr("Small")})
	if err != nil {
		t.Fatalf("UpdateQuestions() error = %v", err)
	}
	if *updated.BusinessSize != "Small" || *updated.OKVEDCodes != "62.01" {
		t.Errorf("UpdateQuestions() = %+v", updated)
	}

	if err := svc.DeleteQuestions(ctx, "alice-id", q.ID); err != nil {
		t.Fatalf("DeleteQuestions() error = %v", err)
	}
	if _, err := svc.GetQuestions(ctx, q.ID); !errors.Is(err, ErrQuestionsNotFound) {
		t.Errorf("GetQuestions() error = %v, want %v", err, ErrQuestionsNotFound)
	}
}
