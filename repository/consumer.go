package repository

import (
	"github.com/EldoranCodes/FileStorageApi/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConsumerRepository struct {
	db *gorm.DB
}

func NewConsumerRepository(db *gorm.DB) *ConsumerRepository {
	return &ConsumerRepository{db: db}
}

func (r *ConsumerRepository) Create(consumer *entity.Consumer) error {
	return r.db.Create(consumer).Error
}

func (r *ConsumerRepository) FindByID(id uuid.UUID) (*entity.Consumer, error) {
	var consumer entity.Consumer
	err := r.db.Where("id = ?", id).First(&consumer).Error
	if err != nil {
		return nil, err
	}
	return &consumer, nil
}
