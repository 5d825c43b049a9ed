package delivery

import "go.mongodb.org/mongo-driver/bson/primitive"

// Status pengiriman laporan.
const (
	DispatchStatusSent   = "sent"
	DispatchStatusFailed = "failed"
)

// DispatchRecord adalah riwayat satu pengiriman laporan keluar
// (collection dispatch_history).
type DispatchRecord struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UnitID    string             `json:"unitId" bson:"unitId"`
	Channel   string             `json:"channel" bson:"channel"` // telegram
	ChatID    string             `json:"chatId" bson:"chatId"`
	Status    string             `json:"status" bson:"status"`
	Error     string             `json:"error,omitempty" bson:"error,omitempty"`
	SentAt    int64              `json:"sentAt" bson:"sentAt"`
	CreatedAt int64              `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt int64              `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}
