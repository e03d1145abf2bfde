// Package store exposes typed repositories over the relational tables so the
// service layer never touches gorm query building directly.
package store

import (
	"errors"

	"vidjot/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

// UserStore is the credential store: typed CRUD over the users table.
type UserStore interface {
	Create(u *models.User) error
	ByID(id uint) (*models.User, error)
	ByEmail(email string) (*models.User, error)
	EmailExists(email string) (bool, error)
	// UpdateProfile writes name and email as one statement in one transaction.
	UpdateProfile(id uint, name, email string) error
	UpdatePassword(id uint, passwordHash string) error
}

// GroupStore persists chat groups.
type GroupStore interface {
	Create(name string) (*models.Group, error)
	All() ([]models.Group, error)
}

type userStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) UserStore { return &userStore{db: db} }

func (s *userStore) Create(u *models.User) error {
	return s.db.Create(u).Error
}

func (s *userStore) ByID(id uint) (*models.User, error) {
	var u models.User
	if err := s.db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *userStore) ByEmail(email string) (*models.User, error) {
	var u models.User
	if err := s.db.Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *userStore) EmailExists(email string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *userStore) UpdateProfile(id uint, name, email string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).Where("id = ?", id).
			Updates(map[string]interface{}{"name": name, "email": email})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *userStore) UpdatePassword(id uint, passwordHash string) error {
	res := s.db.Model(&models.User{}).Where("id = ?", id).Update("password_hash", passwordHash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type groupStore struct {
	db *gorm.DB
}

func NewGroupStore(db *gorm.DB) GroupStore { return &groupStore{db: db} }

func (s *groupStore) Create(name string) (*models.Group, error) {
	g := models.Group{Name: name, GroupID: uuid.NewString()}
	if err := s.db.Create(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *groupStore) All() ([]models.Group, error) {
	var groups []models.Group
	if err := s.db.Order("id asc").Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}
