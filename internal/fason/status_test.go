package fason

import (
	"testing"

	"miraapp-backend/internal/models"
)

func TestNextStatus(t *testing.T) {
	tests := []struct {
		name    string
		process models.ProcessType
		want    models.WorkOrderStatus
		ok      bool
	}{
		{
			name:    "kesim tamamlanınca dikime geçer",
			process: models.ProcessKesim,
			want:    models.StatusDikim,
			ok:      true,
		},
		{
			name:    "dikim tamamlanınca baskı/nakışa geçer",
			process: models.ProcessDikim,
			want:    models.StatusBaskiNakis,
			ok:      true,
		},
		{
			name:    "baskı/nakış tamamlanınca ütüye geçer",
			process: models.ProcessBaskiNakis,
			want:    models.StatusUtu,
			ok:      true,
		},
		{
			name:    "ütü tamamlanınca teslim edilir",
			process: models.ProcessUtu,
			want:    models.StatusTeslimEdildi,
			ok:      true,
		},
		{
			name:    "tabloda olmayan süreç ilerletmez",
			process: models.ProcessType("TESLIM_EDILDI"),
			ok:      false,
		},
		{
			name:    "boş süreç ilerletmez",
			process: models.ProcessType(""),
			ok:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NextStatus(tt.process)
			if ok != tt.ok {
				t.Fatalf("NextStatus(%q) ok = %v, want %v", tt.process, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("NextStatus(%q) = %q, want %q", tt.process, got, tt.want)
			}
		})
	}
}

func TestValidProcessType(t *testing.T) {
	valid := []models.ProcessType{
		models.ProcessKesim,
		models.ProcessDikim,
		models.ProcessBaskiNakis,
		models.ProcessUtu,
	}
	for _, p := range valid {
		if !ValidProcessType(p) {
			t.Errorf("ValidProcessType(%q) = false, want true", p)
		}
	}

	invalid := []models.ProcessType{"", "TESLIM_EDILDI", "kesim", "PAKETLEME"}
	for _, p := range invalid {
		if ValidProcessType(p) {
			t.Errorf("ValidProcessType(%q) = true, want false", p)
		}
	}
}
