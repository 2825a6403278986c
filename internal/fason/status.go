package fason

import "miraapp-backend/internal/models"

// stageSuccessors: Sabit süreç sıralaması. Bir aşamanın "teslim edildi"
// kaydı girilince iş emri buradaki ardıl duruma geçer.
var stageSuccessors = map[models.ProcessType]models.WorkOrderStatus{
	models.ProcessKesim:      models.StatusDikim,
	models.ProcessDikim:      models.StatusBaskiNakis,
	models.ProcessBaskiNakis: models.StatusUtu,
	models.ProcessUtu:        models.StatusTeslimEdildi,
}

// NextStatus: Verilen sürecin tamamlanması iş emrini hangi duruma taşır?
// Tabloda olmayan süreç için false döner ve durum değişmez.
func NextStatus(process models.ProcessType) (models.WorkOrderStatus, bool) {
	next, ok := stageSuccessors[process]
	return next, ok
}

// ValidProcessType: Takip kaydı açılabilecek dört süreçten biri mi?
func ValidProcessType(process models.ProcessType) bool {
	switch process {
	case models.ProcessKesim, models.ProcessDikim, models.ProcessBaskiNakis, models.ProcessUtu:
		return true
	}
	return false
}
