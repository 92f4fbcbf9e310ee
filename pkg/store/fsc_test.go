package store

import "testing"

func TestFSCRepository_SetAndGetChannel(t *testing.T) {
	s := newTestStore(t)
	repo := NewFSCRepository(s.GetDB())

	if err := repo.SetChannel("station-1", 5, 2); err != nil {
		t.Fatalf("SetChannel failed: %v", err)
	}

	binding, found, err := repo.GetChannel("station-1")
	if err != nil {
		t.Fatalf("GetChannel failed: %v", err)
	}
	if !found {
		t.Fatal("Expected binding to be found")
	}
	if binding.ChannelNo != 5 || binding.SiteID != 2 {
		t.Errorf("Unexpected binding: %+v", binding)
	}
}

func TestFSCRepository_GetChannel_NotFound(t *testing.T) {
	s := newTestStore(t)
	repo := NewFSCRepository(s.GetDB())

	_, found, err := repo.GetChannel("unknown")
	if err != nil {
		t.Fatalf("GetChannel failed: %v", err)
	}
	if found {
		t.Error("Expected no binding to be found")
	}
}

func TestFSCRepository_SetChannel_Overwrite(t *testing.T) {
	s := newTestStore(t)
	repo := NewFSCRepository(s.GetDB())

	if err := repo.SetChannel("station-2", 1, 1); err != nil {
		t.Fatalf("SetChannel failed: %v", err)
	}
	if err := repo.SetChannel("station-2", 9, 1); err != nil {
		t.Fatalf("SetChannel overwrite failed: %v", err)
	}

	binding, found, err := repo.GetChannel("station-2")
	if err != nil {
		t.Fatalf("GetChannel failed: %v", err)
	}
	if !found {
		t.Fatal("Expected binding to be found")
	}
	if binding.ChannelNo != 9 {
		t.Errorf("Expected channel 9 after overwrite, got %d", binding.ChannelNo)
	}
}
