// internal/domain/profile/entity.go
package profile

import "time"

// Profile holds the display data of an identity. Its primary key is the
// identity issued by the hosted auth provider.
type Profile struct {
	ID            string    `gorm:"primaryKey;size:64" json:"id"`
	Name          string    `gorm:"size:100" json:"name"`
	RewardsMember bool      `gorm:"not null;default:false" json:"rewards_member"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Profile) TableName() string {
	return "profiles"
}
