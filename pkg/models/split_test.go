package models_test

import (
	"errors"

	"github.com/warped-finance/backend/internal/types"
	"github.com/warped-finance/backend/pkg/models"
)

func (suite *TestSuiteStandard) TestSplitTransaction() {
	a := suite.createTestCategory("a", "letters")
	b := suite.createTestCategory("b", "letters")
	groceries := suite.createTestCategory("groceries", "food")

	suite.createTestTransaction(models.Transaction{
		ID:          "00001",
		Date:        types.NewDate(2023, 3, 4),
		Description: "supermarket",
		Amount:      amount("-42.5"),
		CategoryID:  groceries.ID,
		AccountName: "checking",
		Source:      models.SourceMint,
	})

	children, err := models.SplitTransaction(models.DB, "00001", []models.Split{
		{Amount: amount("-20"), Category: "a"},
		{Amount: amount("-22.50"), Category: "B", Description: "household"},
	})
	suite.Require().Nil(err)
	suite.Require().Len(children, 2)

	first := suite.transaction("00001-1")
	suite.Assert().Equal("00001", *first.ParentID)
	suite.Assert().Equal(a.ID, first.CategoryID)
	suite.Assert().Equal("supermarket", first.Description)
	suite.Assert().Equal("checking", first.AccountName)
	suite.Assert().Equal(models.SourceMint, first.Source)
	suite.Assert().True(types.NewDate(2023, 3, 4).Equal(first.Date))
	suite.Assert().True(amount("-20").Equal(first.Amount))

	second := suite.transaction("00001-2")
	suite.Assert().Equal(b.ID, second.CategoryID)
	suite.Assert().Equal("household", second.Description)
	suite.Assert().True(amount("-22.5").Equal(second.Amount))

	parent, err := models.GetTransaction(models.DB, "00001")
	suite.Require().Nil(err)
	suite.Assert().True(parent.IsSplit)
	suite.Assert().Equal(models.UncategorizedName, parent.Category)
	suite.Assert().True(amount("-42.5").Equal(parent.Amount), "The amount of the split transaction must not change")
}

func (suite *TestSuiteStandard) TestSplitTransactionInheritsCategory() {
	groceries := suite.createTestCategory("groceries", "food")
	suite.createTestTransaction(models.Transaction{ID: "00001", Amount: amount("10"), CategoryID: groceries.ID})

	_, err := models.SplitTransaction(models.DB, "00001", []models.Split{{Amount: amount("4")}, {Amount: amount("6")}})
	suite.Require().Nil(err)

	suite.Assert().Equal(groceries.ID, suite.transaction("00001-1").CategoryID)
	suite.Assert().Equal(groceries.ID, suite.transaction("00001-2").CategoryID)
}

// assertUnsplit verifies that a transaction is not split and has no parts.
func (suite *TestSuiteStandard) assertUnsplit(id string) {
	suite.Assert().False(suite.transaction(id).IsSplit)

	var children int64
	suite.Require().Nil(models.DB.Model(&models.Transaction{}).Where("parent_id = ?", id).Count(&children).Error)
	suite.Assert().Equal(int64(0), children)
}

func (suite *TestSuiteStandard) TestSplitTransactionAmountMismatch() {
	suite.createTestTransaction(models.Transaction{ID: "00001", Amount: amount("-42.5")})

	_, err := models.SplitTransaction(models.DB, "00001", []models.Split{{Amount: amount("-20")}, {Amount: amount("-22.49")}})
	suite.Assert().ErrorIs(err, models.ErrAmountMismatch)
	suite.Assert().ErrorIs(err, models.ErrValidation)

	var mismatch models.AmountMismatchError
	suite.Require().True(errors.As(err, &mismatch))
	suite.Assert().True(amount("-42.5").Equal(mismatch.Expected))
	suite.Assert().True(amount("-42.49").Equal(mismatch.Actual))
	suite.Assert().Contains(err.Error(), "-42.49")

	suite.assertUnsplit("00001")
}

func (suite *TestSuiteStandard) TestSplitTransactionUnknownCategory() {
	suite.createTestTransaction(models.Transaction{ID: "00001", Amount: amount("-10")})

	_, err := models.SplitTransaction(models.DB, "00001", []models.Split{{Amount: amount("-5"), Category: "groceries"}, {Amount: amount("-5"), Category: "nope"}})
	suite.Assert().ErrorIs(err, models.ErrUnknownCategory)

	suite.assertUnsplit("00001")
}

func (suite *TestSuiteStandard) TestSplitTransactionTwice() {
	suite.createTestTransaction(models.Transaction{ID: "00001", Amount: amount("-10")})

	_, err := models.SplitTransaction(models.DB, "00001", []models.Split{{Amount: amount("-10")}})
	suite.Require().Nil(err)

	_, err = models.SplitTransaction(models.DB, "00001", []models.Split{{Amount: amount("-3")}, {Amount: amount("-7")}})
	suite.Assert().ErrorIs(err, models.ErrAlreadySplit)
	suite.Assert().ErrorIs(err, models.ErrConflict)

	var children int64
	suite.Require().Nil(models.DB.Model(&models.Transaction{}).Where("parent_id = ?", "00001").Count(&children).Error)
	suite.Assert().Equal(int64(1), children, "A failed split must not change the existing split")
}

func (suite *TestSuiteStandard) TestSplitTransactionErrors() {
	suite.createTestTransaction(models.Transaction{ID: "00001", Amount: amount("-10")})
	_, err := models.SplitTransaction(models.DB, "00001", []models.Split{{Amount: amount("-10")}})
	suite.Require().Nil(err)

	tests := []struct {
		name   string
		id     string
		splits []models.Split
		err    error
	}{
		{"Invalid ID", "1", []models.Split{{Amount: amount("1")}}, models.ErrInvalidTransactionID},
		{"Not found", "00404", []models.Split{{Amount: amount("1")}}, models.ErrResourceNotFound},
		{"No splits", "00001", []models.Split{}, models.ErrNoSplits},
		{"Split a part", "00001-1", []models.Split{{Amount: amount("-10")}}, models.ErrChildTransaction},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := models.SplitTransaction(models.DB, tt.id, tt.splits)
			suite.Assert().ErrorIs(err, tt.err)
		})
	}
}

func (suite *TestSuiteStandard) TestDeleteSplitTransactions() {
	groceries := suite.createTestCategory("groceries", "food")
	suite.createTestTransaction(models.Transaction{ID: "00001", Amount: amount("-10"), CategoryID: groceries.ID})
	suite.createTestTransaction(models.Transaction{ID: "00002", Amount: amount("-3")})

	_, err := models.SplitTransaction(models.DB, "00001", []models.Split{{Amount: amount("-3")}, {Amount: amount("-7")}})
	suite.Require().Nil(err)
	_, err = models.SplitTransaction(models.DB, "00002", []models.Split{{Amount: amount("-3")}})
	suite.Require().Nil(err)

	_, err = models.SetTransactionTags(models.DB, "00001-1", []string{"shared"})
	suite.Require().Nil(err)

	deleted, err := models.DeleteSplitTransactions(models.DB, "00001")
	suite.Require().Nil(err)
	suite.Assert().Equal(int64(2), deleted)

	suite.assertUnsplit("00001")
	suite.Assert().True(suite.transaction("00002").IsSplit, "Other splits must not be touched")
	suite.transaction("00002-1")

	uncategorized, err := models.CategoryByName(models.DB, models.UncategorizedName)
	suite.Require().Nil(err)
	suite.Assert().Equal(uncategorized.ID, suite.transaction("00001").CategoryID, "The category is not restored")

	// The transaction can be split again
	_, err = models.SplitTransaction(models.DB, "00001", []models.Split{{Amount: amount("-10")}})
	suite.Assert().Nil(err)
}

func (suite *TestSuiteStandard) TestDeleteSplitTransactionsErrors() {
	suite.createTestTransaction(models.Transaction{ID: "00001", Amount: amount("-10")})

	_, err := models.DeleteSplitTransactions(models.DB, "00001")
	suite.Assert().ErrorIs(err, models.ErrNotSplit)
	suite.assertUnsplit("00001")

	_, err = models.DeleteSplitTransactions(models.DB, "00404")
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)

	_, err = models.DeleteSplitTransactions(models.DB, "x")
	suite.Assert().ErrorIs(err, models.ErrInvalidTransactionID)
}

func (suite *TestSuiteStandard) TestSplitTransactionClosedDB() {
	suite.createTestTransaction(models.Transaction{ID: "00001", Amount: amount("-10")})
	suite.CloseDB()

	_, err := models.SplitTransaction(models.DB, "00001", []models.Split{{Amount: amount("-10")}})
	suite.Assert().Error(err)
}
