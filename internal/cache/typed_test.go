// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

type testPage struct {
	Name     string         `json:"name"`
	Sections map[string]int `json:"sections"`
}

func TestTyped_GetOrLoad(t *testing.T) {
	mc := newTestMemoryCache(0)
	defer func() { _ = mc.Close() }()
	ctx := context.Background()

	tc := NewTyped[testPage](mc, "content", time.Minute, nil)

	calls := 0
	load := func(context.Context) (testPage, error) {
		calls++
		return testPage{Name: "home", Sections: map[string]int{"hero": 1}}, nil
	}

	for i := 0; i < 3; i++ {
		p, err := tc.GetOrLoad(ctx, "home", load)
		if err != nil {
			t.Fatalf("GetOrLoad: %v", err)
		}
		if p.Name != "home" || p.Sections["hero"] != 1 {
			t.Errorf("unexpected value: %+v", p)
		}
	}
	if calls != 1 {
		t.Errorf("loader called %d times, want 1", calls)
	}

	if has, _ := mc.Has(ctx, "content:home"); !has {
		t.Error("value should be stored under the namespaced key")
	}
}

func TestTyped_LoadErrorIsNotCached(t *testing.T) {
	mc := newTestMemoryCache(0)
	defer func() { _ = mc.Close() }()
	ctx := context.Background()

	tc := NewTyped[testPage](mc, "content", time.Minute, nil)
	boom := errors.New("boom")

	_, err := tc.GetOrLoad(ctx, "home", func(context.Context) (testPage, error) {
		return testPage{}, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if mc.Len() != 0 {
		t.Error("failed loads must not be cached")
	}
}

func TestTyped_Invalidate(t *testing.T) {
	mc := newTestMemoryCache(0)
	defer func() { _ = mc.Close() }()
	ctx := context.Background()

	tc := NewTyped[testPage](mc, "content", time.Minute, nil)
	tc.Set(ctx, "home", testPage{Name: "home"})
	tc.Set(ctx, "about", testPage{Name: "about"})
	_ = mc.Set(ctx, "settings:site", []byte(`{}`), 0)

	tc.Invalidate(ctx, "home")
	if _, ok := tc.Get(ctx, "home"); ok {
		t.Error("home should be invalidated")
	}
	if _, ok := tc.Get(ctx, "about"); !ok {
		t.Error("about should still be cached")
	}

	tc.InvalidateAll(ctx)
	if _, ok := tc.Get(ctx, "about"); ok {
		t.Error("about should be invalidated")
	}
	if has, _ := mc.Has(ctx, "settings:site"); !has {
		t.Error("other namespaces must be untouched")
	}
}

func TestTyped_UndecodableEntryIsDropped(t *testing.T) {
	mc := newTestMemoryCache(0)
	defer func() { _ = mc.Close() }()
	ctx := context.Background()

	_ = mc.Set(ctx, "content:home", []byte("not json"), 0)
	tc := NewTyped[testPage](mc, "content", time.Minute, nil)

	if _, ok := tc.Get(ctx, "home"); ok {
		t.Fatal("undecodable entry must be treated as a miss")
	}
	if has, _ := mc.Has(ctx, "content:home"); has {
		t.Error("undecodable entry should be deleted")
	}
}

func TestTyped_NilIsNoop(t *testing.T) {
	var tc *Typed[testPage]
	ctx := context.Background()

	tc.Set(ctx, "home", testPage{Name: "home"})
	tc.Invalidate(ctx, "home")
	tc.InvalidateAll(ctx)

	calls := 0
	for i := 0; i < 2; i++ {
		_, err := tc.GetOrLoad(ctx, "home", func(context.Context) (testPage, error) {
			calls++
			return testPage{Name: "home"}, nil
		})
		if err != nil {
			t.Fatalf("GetOrLoad: %v", err)
		}
	}
	if calls != 2 {
		t.Errorf("nil cache should always load, got %d calls", calls)
	}

	if NewTyped[testPage](nil, "content", time.Minute, nil) != nil {
		t.Error("NewTyped(nil) should return nil")
	}
}
