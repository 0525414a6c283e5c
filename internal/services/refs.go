package services

import (
	"gorm.io/gorm"

	"github.com/appdotbuilder/invoice-manager-internal/internal/apperr"
	"github.com/appdotbuilder/invoice-manager-internal/internal/models"
)

// Reference checks run inside the mutating transaction so a concurrent client
// or item deletion cannot slip between the check and the write.

func checkClientExists(tx *gorm.DB, clientID uint) error {
	var count int64
	if err := tx.Model(&models.Client{}).Where("id = ?", clientID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperr.NotFound("client")
	}
	return nil
}

// checkItemsExist validates the ids as a set; duplicates in the input are fine.
func checkItemsExist(tx *gorm.DB, itemIDs []uint) error {
	unique := make([]uint, 0, len(itemIDs))
	seen := make(map[uint]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return nil
	}
	var count int64
	if err := tx.Model(&models.Item{}).Where("id IN ?", unique).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(unique)) {
		return apperr.NotFound("one or more items")
	}
	return nil
}
