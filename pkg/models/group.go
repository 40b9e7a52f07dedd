package models

import (
	"github.com/warped-finance/backend/pkg/normalize"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UngroupedName is the name of the group categories belong to
// when no other group is known for them.
const UngroupedName = "ungrouped"

// Group is a set of categories.
type Group struct {
	DefaultModel
	Name string `json:"name" gorm:"uniqueIndex;not null" example:"food"`
}

func (g *Group) BeforeSave(_ *gorm.DB) error {
	g.Name = normalize.Name(g.Name)
	return nil
}

// GroupWithCategories is a group together with the names of its categories.
type GroupWithCategories struct {
	Group
	Categories []string `json:"categories" example:"groceries,restaurants"`
}

// InsertOrFetch inserts a record identified by its unique name.
// If a record with the name already exists, it is loaded into record instead.
//
// It reports whether the record was inserted.
func InsertOrFetch(tx *gorm.DB, record any, name string) (bool, error) {
	result := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Omit(clause.Associations).Create(record)
	if result.Error != nil {
		return false, result.Error
	}

	if result.RowsAffected == 1 {
		return true, nil
	}

	return false, tx.Where("name = ?", name).First(record).Error
}

// InsertOrFetchGroup returns the group with the name, creating it if needed.
func InsertOrFetchGroup(tx *gorm.DB, name string) (Group, error) {
	group := Group{Name: normalize.Name(name)}
	if group.Name == "" {
		return Group{}, ErrNameEmpty
	}

	_, err := InsertOrFetch(tx, &group, group.Name)
	return group, err
}

// Groups returns all groups ordered by their ID.
func Groups(db *gorm.DB) ([]Group, error) {
	var groups []Group
	err := db.Order("id").Find(&groups).Error
	return groups, err
}

// GroupsWithCategories returns all groups with the names of their categories.
// Groups without categories are included.
func GroupsWithCategories(db *gorm.DB) ([]GroupWithCategories, error) {
	groups, err := Groups(db)
	if err != nil {
		return nil, err
	}

	var categories []Category
	err = db.Order("name").Find(&categories).Error
	if err != nil {
		return nil, err
	}

	names := make(map[uint][]string)
	for _, c := range categories {
		names[c.GroupID] = append(names[c.GroupID], c.Name)
	}

	result := make([]GroupWithCategories, 0, len(groups))
	for _, g := range groups {
		c := names[g.ID]
		if c == nil {
			c = []string{}
		}
		result = append(result, GroupWithCategories{Group: g, Categories: c})
	}

	return result, nil
}
