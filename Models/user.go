package Models

import (
	"gorm.io/gorm"
)

// Permission levels checked by middleware.Verify:
// 1 = member (complete own tasks), 3 = supervisor (generate, audit,
// manage templates), 4 = admin (user management).
type User struct {
	gorm.Model
	Name       string `json:"name" gorm:"not null"`
	Email      string `json:"email" gorm:"not null;uniqueIndex"`
	Password   []byte `json:"-"`
	Permission int    `json:"permission" gorm:"default:1"`
}
