package profile

import "github.com/fundwit/go-commons/types"

const (
	MaxFieldLength = 255
	MaxBioLength   = 2000
)

// Profile is the descriptive data of a user, the identity itself comes from the gateway.
type Profile struct {
	UserID types.ID `json:"userId" gorm:"primary_key;auto_increment:false"`

	FullName string `json:"fullName" gorm:"size:255"`
	Company  string `json:"company" gorm:"size:255"`
	Position string `json:"position" gorm:"size:255"`
	Bio      string `json:"bio" sql:"type:TEXT"`

	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6)"`
	UpdateTime types.Timestamp `json:"updateTime" sql:"type:DATETIME(6)"`
}

// ProfileUpdating carries only the fields to change.
type ProfileUpdating struct {
	FullName *string `json:"fullName" binding:"omitempty,max=255"`
	Company  *string `json:"company" binding:"omitempty,max=255"`
	Position *string `json:"position" binding:"omitempty,max=255"`
	Bio      *string `json:"bio" binding:"omitempty,max=2000"`
}
