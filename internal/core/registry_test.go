package core

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRegistry(t *testing.T) {
	Clear()
	t.Cleanup(Clear)

	Register(newPressModel().Resource())
	Register(newArticleModel().Resource())

	if got := TableCount(); got != 2 {
		t.Fatalf("TableCount() = %d, want 2", got)
	}

	all := All()
	if all[0].Info().Name != "articles" || all[1].Info().Name != "press" {
		t.Errorf("All() order = %s, %s, want articles, press", all[0].Info().Name, all[1].Info().Name)
	}

	if _, ok := Get("press"); !ok {
		t.Error("Get(press) not found")
	}
	if _, ok := Get("nope"); ok {
		t.Error("Get(nope) found a resource")
	}

	defer func() {
		if recover() == nil {
			t.Error("Register() of a duplicate table did not panic")
		}
	}()
	Register(newPressModel().Resource())
}

func TestServiceResource(t *testing.T) {
	Clear()
	t.Cleanup(Clear)
	Register(newPressModel().Resource())

	svc := NewService(nil)
	if _, err := svc.Resource("press"); err != nil {
		t.Errorf("Resource(press) error = %v", err)
	}
	_, err := svc.Resource("nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Resource(nope) error = %v, want ErrNotFound", err)
	}
	if infos := svc.ListTables(); len(infos) != 1 || infos[0].Name != "press" {
		t.Errorf("ListTables() = %+v", infos)
	}
}

func TestResourceRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	press := f.press.Resource()
	articles := f.articles.Resource()

	p, err := press.Create(ctx, f.session(), Values{"name": "Record"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	pressID := p["id"].(int64)

	for _, title := range []string{"one", "two", "three"} {
		if _, err := articles.Create(ctx, f.session(), Values{"press_id": pressID, "title": title}); err != nil {
			t.Fatalf("Create(%s) error = %v", title, err)
		}
	}

	rec, err := articles.Update(ctx, f.session(), 2, Values{"views": int64(9)})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if rec["views"] != int64(9) {
		t.Errorf("views = %v, want 9", rec["views"])
	}

	if err := articles.Delete(ctx, f.session(), 3); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := articles.Get(ctx, f.session(), 3); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(deleted) error = %v, want ErrNotFound", err)
	}

	got, err := articles.Get(ctx, f.session(), 1)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got["title"] != "one" {
		t.Errorf("title = %v, want one", got["title"])
	}

	tests := []struct {
		name string
		req  ListRequest
		want []int64
	}{
		{"all live", ListRequest{}, []int64{2, 1}},
		{"by ids", ListRequest{IDs: []int64{1, 3}}, []int64{1}},
		{"criteria", ListRequest{Criteria: Criteria{"title": "tw"}}, []int64{2}},
		{
			"period on updated_at",
			ListRequest{Period: DateRange{Begin: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}, UseUpdatedAt: true},
			[]int64{2, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := articles.List(ctx, f.session(), tt.req)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(records) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(records), len(tt.want))
			}
			for i, id := range tt.want {
				if records[i]["id"] != id {
					t.Errorf("records[%d].id = %v, want %d", i, records[i]["id"], id)
				}
			}
		})
	}

	_, err = articles.List(ctx, f.session(), ListRequest{Period: DateRange{End: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("List(old period) error = %v, want ErrNotFound", err)
	}
}
