package paging

import "testing"

func page(n int) []int {
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return rows
}

func TestTrimPage_ForwardFirstPage(t *testing.T) {
	rows := page(PageSize + 1)
	res := TrimPage(&rows, "", "")
	if len(rows) != PageSize {
		t.Errorf("len: got %d, want %d", len(rows), PageSize)
	}
	if rows[len(rows)-1] != PageSize-1 {
		t.Error("extra row should be trimmed from the end")
	}
	if res.HasPrev || !res.HasNext {
		t.Errorf("flags: got %+v, want next only", res)
	}
}

func TestTrimPage_ForwardWithAfter(t *testing.T) {
	rows := page(10)
	res := TrimPage(&rows, "", "cursor")
	if len(rows) != 10 {
		t.Errorf("short page should not be trimmed, got %d", len(rows))
	}
	if !res.HasPrev || res.HasNext {
		t.Errorf("flags: got %+v, want prev only", res)
	}
}

func TestTrimPage_Backward(t *testing.T) {
	rows := page(PageSize + 1)
	res := TrimPage(&rows, "cursor", "")
	if len(rows) != PageSize {
		t.Errorf("len: got %d, want %d", len(rows), PageSize)
	}
	if rows[0] != 1 {
		t.Error("extra row should be trimmed from the front")
	}
	if !res.HasPrev || !res.HasNext {
		t.Errorf("flags: got %+v, want both", res)
	}
}

func TestConfigureKeyset_Direction(t *testing.T) {
	if cfg := ConfigureKeyset("", ""); cfg.Direction != Forward || cfg.SortOrder != 1 || cfg.Cursor != nil {
		t.Errorf("no cursors: got %+v", cfg)
	}
	if cfg := ConfigureKeyset("not-a-cursor", ""); cfg.Direction != Backward || cfg.SortOrder != -1 {
		t.Errorf("before: got %+v", cfg)
	}
	// Undecodable cursors leave the window unbounded rather than erroring.
	if cfg := ConfigureKeyset("", "not-a-cursor"); cfg.Cursor != nil {
		t.Errorf("bad cursor should be ignored: got %+v", cfg.Cursor)
	}
}

func TestReverse(t *testing.T) {
	rows := []int{1, 2, 3, 4}
	Reverse(rows)
	if rows[0] != 4 || rows[3] != 1 {
		t.Errorf("got %v", rows)
	}
}
