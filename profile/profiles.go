// Package profile keeps the full name, company, position and bio of each user.
package profile

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"smartmethods/bizerror"
	"smartmethods/domain"
	"smartmethods/persistence"
	"smartmethods/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

var (
	GetProfileFunc  = GetProfile
	SaveProfileFunc = SaveProfile
)

// GetProfile returns the profile of the session user, an empty one until it is first saved.
func GetProfile(s *session.Session) (*Profile, error) {
	if !s.Authenticated() {
		return nil, bizerror.ErrUnauthenticated
	}
	p := Profile{}
	err := persistence.ActiveDataSourceManager.GormDB(s.Context).Where(&Profile{UserID: s.Identity.ID}).First(&p).Error
	if gorm.IsRecordNotFoundError(err) {
		return &Profile{UserID: s.Identity.ID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SaveProfile creates or updates the profile of the session user.
func SaveProfile(u *ProfileUpdating, s *session.Session) (*Profile, error) {
	if !s.Authenticated() {
		return nil, bizerror.ErrUnauthenticated
	}
	var err error
	t := ProfileUpdating{}
	if t.FullName, err = checkField("full name", u.FullName, MaxFieldLength); err != nil {
		return nil, err
	}
	if t.Company, err = checkField("company", u.Company, MaxFieldLength); err != nil {
		return nil, err
	}
	if t.Position, err = checkField("position", u.Position, MaxFieldLength); err != nil {
		return nil, err
	}
	if t.Bio, err = checkField("bio", u.Bio, MaxBioLength); err != nil {
		return nil, err
	}
	u = &t

	var p *Profile
	err = persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		now := types.CurrentTimestamp()
		p = &Profile{}
		err := tx.Where(&Profile{UserID: s.Identity.ID}).First(p).Error
		creating := gorm.IsRecordNotFoundError(err)
		if err != nil && !creating {
			return err
		}
		if creating {
			p = &Profile{UserID: s.Identity.ID, CreateTime: now}
		}

		if u.FullName != nil {
			p.FullName = *u.FullName
		}
		if u.Company != nil {
			p.Company = *u.Company
		}
		if u.Position != nil {
			p.Position = *u.Position
		}
		if u.Bio != nil {
			p.Bio = *u.Bio
		}
		p.UpdateTime = now

		if creating {
			return tx.Create(p).Error
		}
		return tx.Save(p).Error
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func checkField(name string, value *string, limit int) (*string, error) {
	if value == nil {
		return nil, nil
	}
	v := strings.TrimSpace(*value)
	if utf8.RuneCountInString(v) > limit {
		return nil, fmt.Errorf("%s longer than %d: %w", name, limit, domain.ErrInvalidArgument)
	}
	return &v, nil
}
