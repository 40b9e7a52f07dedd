package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/warped-finance/backend/pkg/models"
)

func (suite *TestSuiteStandard) TestCategoryNameNormalized() {
	category := suite.createTestCategory("  Home_Improvement ", "Home")
	suite.Assert().Equal("home improvement", category.Name)

	// Case and whitespace variants resolve to the same category
	again := suite.createTestCategory("HOME improvement", "other")
	suite.Assert().Equal(category.ID, again.ID)
	suite.Assert().Equal(category.GroupID, again.GroupID, "An existing category must keep its group")
}

func (suite *TestSuiteStandard) TestCreateCategory() {
	category, err := models.CreateCategory(models.DB, "Pets")
	suite.Require().Nil(err)
	suite.Assert().Equal("pets", category.Name)

	var group models.Group
	suite.Require().Nil(models.DB.First(&group, category.GroupID).Error)
	suite.Assert().Equal(models.UngroupedName, group.Name)

	_, err = models.CreateCategory(models.DB, "pets")
	suite.Assert().ErrorIs(err, models.ErrCategoryExists)
	suite.Assert().ErrorIs(err, models.ErrConflict)

	_, err = models.CreateCategory(models.DB, " ")
	suite.Assert().ErrorIs(err, models.ErrValidation)
}

func (suite *TestSuiteStandard) TestCategoriesByGroup() {
	suite.createTestCategory("restaurants", "food")
	suite.createTestCategory("groceries", "food")
	suite.createTestCategory("rent", "home")
	suite.createTestGroup("empty")

	groups, err := models.CategoriesByGroup(models.DB)
	suite.Require().Nil(err)
	suite.Require().Len(groups, 3, "Groups without categories must be omitted")

	suite.Assert().Equal(models.UngroupedName, groups[0].GroupName)
	suite.Assert().Equal("food", groups[1].GroupName)
	suite.Require().Len(groups[1].Categories, 2)
	suite.Assert().Equal("groceries", groups[1].Categories[0].Name)
	suite.Assert().Equal("restaurants", groups[1].Categories[1].Name)
	suite.Assert().Equal("home", groups[2].GroupName)
}

func (suite *TestSuiteStandard) TestGroupsWithCategories() {
	suite.createTestCategory("rent", "home")
	suite.createTestGroup("empty")

	groups, err := models.GroupsWithCategories(models.DB)
	suite.Require().Nil(err)
	suite.Require().Len(groups, 3)

	suite.Assert().Equal([]string{models.UncategorizedName}, groups[0].Categories)
	suite.Assert().Equal([]string{"rent"}, groups[1].Categories)
	suite.Assert().Equal("empty", groups[2].Name)
	suite.Assert().Equal([]string{}, groups[2].Categories)
}

func (suite *TestSuiteStandard) TestRenameCategoryInPlace() {
	category := suite.createTestCategory("gas", "auto")
	transaction := suite.createTestTransaction(models.Transaction{ID: "00001", CategoryID: category.ID})

	renamed, err := models.RenameCategory(models.DB, "GAS", "Gas & Fuel")
	suite.Require().Nil(err)
	suite.Assert().Equal(category.ID, renamed.ID)
	suite.Assert().Equal("gas & fuel", renamed.Name)

	suite.Assert().Equal(category.ID, suite.transaction(transaction.ID).CategoryID)
}

func (suite *TestSuiteStandard) TestRenameCategoryMerges() {
	old := suite.createTestCategory("fast food", "food")
	target := suite.createTestCategory("restaurants", "food")
	suite.createTestTransaction(models.Transaction{ID: "00001", CategoryID: old.ID})
	suite.createTestTransaction(models.Transaction{ID: "00002", CategoryID: target.ID})

	merged, err := models.RenameCategory(models.DB, "fast food", "restaurants")
	suite.Require().Nil(err)
	suite.Assert().Equal(target.ID, merged.ID)

	suite.Assert().Equal(target.ID, suite.transaction("00001").CategoryID)
	suite.Assert().Equal(target.ID, suite.transaction("00002").CategoryID)

	_, err = models.CategoryByName(models.DB, "fast food")
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound, "The merged category must be deleted")
}

func (suite *TestSuiteStandard) TestRenameCategoryErrors() {
	suite.createTestCategory("gas", "auto")

	tests := []struct {
		name    string
		current string
		new     string
		err     error
	}{
		{"Empty", "gas", "  ", models.ErrNameEmpty},
		{"Unchanged", "gas", "GAS", models.ErrCategoryNameUnchanged},
		{"Default category", "uncategorized", "misc", models.ErrDefaultCategory},
		{"Unknown", "does not exist", "something", models.ErrResourceNotFound},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			_, err := models.RenameCategory(models.DB, tt.current, tt.new)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func (suite *TestSuiteStandard) TestRegroupCategory() {
	category := suite.createTestCategory("gas", "auto")
	group := suite.createTestGroup("travel")

	regrouped, err := models.RegroupCategory(models.DB, category.ID, group.ID)
	suite.Require().Nil(err)
	suite.Assert().Equal(group.ID, regrouped.GroupID)

	// Transactions follow the category into the new group
	suite.createTestTransaction(models.Transaction{ID: "00001", CategoryID: category.ID})
	detail, err := models.GetTransaction(models.DB, "00001")
	suite.Require().Nil(err)
	suite.Assert().Equal("travel", detail.GroupName)

	_, err = models.RegroupCategory(models.DB, category.ID, 999)
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)

	_, err = models.RegroupCategory(models.DB, 999, group.ID)
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}
