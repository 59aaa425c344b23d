package dao

import (
	"webscan/internal/models"

	"gorm.io/gorm"
)

type ScanDAO interface {
	SaveScan(scan *models.ScanRecord) error
	GetScanByUUID(uuid string) (*models.ScanRecord, error)
	ListScansWithPagination(page, limit int) ([]models.ScanRecord, int64, error)
	UpdateScan(scan *models.ScanRecord) error
	DeleteScan(uuid string) error
}

type scanDAO struct {
	db *gorm.DB
}

func NewScanDAO(db *gorm.DB) ScanDAO {
	return &scanDAO{db: db}
}

func (dao *scanDAO) SaveScan(scan *models.ScanRecord) error {
	return dao.db.Create(scan).Error
}

func (dao *scanDAO) UpdateScan(scan *models.ScanRecord) error {
	return dao.db.Session(&gorm.Session{FullSaveAssociations: true}).Save(scan).Error
}

func (dao *scanDAO) GetScanByUUID(uuid string) (*models.ScanRecord, error) {
	var scan models.ScanRecord
	if err := dao.db.Preload("Findings").Where("uuid = ?", uuid).First(&scan).Error; err != nil {
		return nil, err
	}
	return &scan, nil
}

func (dao *scanDAO) ListScansWithPagination(page, limit int) ([]models.ScanRecord, int64, error) {
	var scans []models.ScanRecord
	var total int64

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	offset := (page - 1) * limit

	if err := dao.db.Model(&models.ScanRecord{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := dao.db.Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&scans).Error; err != nil {
		return nil, 0, err
	}

	return scans, total, nil
}

func (dao *scanDAO) DeleteScan(uuid string) error {
	return dao.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("scan_uuid = ?", uuid).Delete(&models.FindingRecord{}).Error; err != nil {
			return err
		}
		result := tx.Where("uuid = ?", uuid).Delete(&models.ScanRecord{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
