package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// LayerDocument is one stored record in a data partition. The founder
// and research layers are searched by embedding similarity; the fund
// operations layer by keyword match.
type LayerDocument struct {
	Id        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LayerId   string          `gorm:"type:varchar(64);not null;index"`
	Title     string          `gorm:"type:varchar(512);not null"`
	Content   string          `gorm:"type:text"`
	SourceTag string          `gorm:"type:varchar(128)"`
	Embedding pgvector.Vector `gorm:"type:vector(768)"` // nomic-embed-text / text-embedding-004 dimensions
	Metadata  datatypes.JSON  `gorm:"type:jsonb"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime"`
}

func (LayerDocument) TableName() string {
	return "layer_documents"
}
