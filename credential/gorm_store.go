package credential

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NodeCredential 凭据表（node_credentials）
type NodeCredential struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:100;not null;index:idx_credential_name" json:"name"` // 凭据类型，如 cohereApi
	Label     string    `gorm:"size:100" json:"label"`
	Data      string    `gorm:"type:text;not null" json:"-"` // JSON 编码的参数
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名
func (NodeCredential) TableName() string { return "node_credentials" }

// GormStore 数据库凭据存储，支持 PostgreSQL、MySQL、SQLite
type GormStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGormStore 创建数据库凭据存储
func NewGormStore(db *gorm.DB, logger *zap.Logger) *GormStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GormStore{
		db:     db,
		logger: logger.With(zap.String("component", "credential_store")),
	}
}

// AutoMigrate 创建或更新凭据表
func (s *GormStore) AutoMigrate() error {
	if err := s.db.AutoMigrate(&NodeCredential{}); err != nil {
		return fmt.Errorf("failed to auto migrate credentials: %w", err)
	}
	return nil
}

// Save 保存凭据，ID 为空时生成 UUID。返回记录 ID。
func (s *GormStore) Save(ctx context.Context, rec Record, label string) (string, error) {
	if rec.Name == "" {
		return "", fmt.Errorf("credential name is required")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	raw, err := encodeData(rec.Data)
	if err != nil {
		return "", err
	}

	row := NodeCredential{ID: rec.ID, Name: rec.Name, Label: label, Data: raw}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "label", "data", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return "", fmt.Errorf("save credential: %w", err)
	}

	s.logger.Info("credential saved",
		zap.String("id", rec.ID),
		zap.String("name", rec.Name))
	return rec.ID, nil
}

// Delete 删除凭据
func (s *GormStore) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&NodeCredential{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	return nil
}

// List 按类型列出凭据（不含密钥值）
func (s *GormStore) List(ctx context.Context, name string) ([]NodeCredential, error) {
	var rows []NodeCredential
	q := s.db.WithContext(ctx).Select("id", "name", "label", "created_at", "updated_at").Order("created_at ASC")
	if name != "" {
		q = q.Where("name = ?", name)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	return rows, nil
}

// GetCredentialData implements Resolver.
func (s *GormStore) GetCredentialData(ctx context.Context, id string) (Record, error) {
	var row NodeCredential
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Record{}, fmt.Errorf("load credential %s: %w", id, err)
	}

	data, err := decodeData(row.Data)
	if err != nil {
		return Record{}, err
	}
	return Record{ID: row.ID, Name: row.Name, Data: data}, nil
}
