package models_test

import (
	"github.com/warped-finance/backend/pkg/models"
)

func (suite *TestSuiteStandard) TestCreateTag() {
	tag, err := models.CreateTag(models.DB, " Vacation ")
	suite.Require().Nil(err)
	suite.Assert().Equal("vacation", tag.Name)

	_, err = models.CreateTag(models.DB, "VACATION")
	suite.Assert().ErrorIs(err, models.ErrTagExists)
	suite.Assert().ErrorIs(err, models.ErrConflict)

	tags, err := models.Tags(models.DB)
	suite.Require().Nil(err)
	suite.Assert().Len(tags, 1)
}

func (suite *TestSuiteStandard) TestSetTransactionTags() {
	suite.createTestTransaction(models.Transaction{ID: "00001"})
	_, err := models.CreateTag(models.DB, "work")
	suite.Require().Nil(err)

	tags, err := models.SetTransactionTags(models.DB, "00001", []string{"Work", "travel", "work"})
	suite.Require().Nil(err)
	suite.Assert().Equal([]string{"travel", "work"}, tags)

	detail, err := models.GetTransaction(models.DB, "00001")
	suite.Require().Nil(err)
	suite.Assert().Equal([]string{"travel", "work"}, detail.Tags)

	// Dropping a tag removes only its association
	tags, err = models.SetTransactionTags(models.DB, "00001", []string{"travel"})
	suite.Require().Nil(err)
	suite.Assert().Equal([]string{"travel"}, tags)

	var associations int64
	suite.Require().Nil(models.DB.Model(&models.TransactionTag{}).Count(&associations).Error)
	suite.Assert().Equal(int64(1), associations)

	all, err := models.Tags(models.DB)
	suite.Require().Nil(err)
	suite.Assert().Len(all, 2, "Tags must not be deleted when they are removed from a transaction")

	// Removing all tags
	tags, err = models.SetTransactionTags(models.DB, "00001", []string{})
	suite.Require().Nil(err)
	suite.Assert().Empty(tags)

	detail, err = models.GetTransaction(models.DB, "00001")
	suite.Require().Nil(err)
	suite.Assert().Equal([]string{}, detail.Tags)
}

func (suite *TestSuiteStandard) TestSetTransactionTagsErrors() {
	_, err := models.SetTransactionTags(models.DB, "00404", []string{"a"})
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)

	_, err = models.SetTransactionTags(models.DB, "abc", []string{"a"})
	suite.Assert().ErrorIs(err, models.ErrInvalidTransactionID)
}

func (suite *TestSuiteStandard) TestTransactionsByTags() {
	suite.createTestTransaction(models.Transaction{ID: "00001"})
	suite.createTestTransaction(models.Transaction{ID: "00002"})
	suite.createTestTransaction(models.Transaction{ID: "00003"})

	_, err := models.SetTransactionTags(models.DB, "00001", []string{"a", "b"})
	suite.Require().Nil(err)
	_, err = models.SetTransactionTags(models.DB, "00002", []string{"b"})
	suite.Require().Nil(err)

	tests := []struct {
		name string
		tags []string
		mode models.TagMode
		ids  []string
	}{
		{"Or", []string{"a", "b"}, models.TagModeOr, []string{"00002", "00001"}},
		{"Default is or", []string{"b"}, "", []string{"00002", "00001"}},
		{"And", []string{"a", "b"}, models.TagModeAnd, []string{"00001"}},
		{"And with unknown tag", []string{"a", "unknown"}, models.TagModeAnd, []string{}},
		{"No tags", []string{}, models.TagModeOr, []string{}},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			transactions, err := models.TransactionsByTags(models.DB, tt.tags, tt.mode)
			suite.Require().Nil(err)

			ids := []string{}
			for _, t := range transactions {
				ids = append(ids, t.ID)
			}
			suite.Assert().Equal(tt.ids, ids)
		})
	}

	_, err = models.TransactionsByTags(models.DB, []string{"a"}, "xor")
	suite.Assert().ErrorIs(err, models.ErrTagMode)

	tagged, err := models.TransactionsWithTags(models.DB, 0)
	suite.Require().Nil(err)
	suite.Assert().Len(tagged, 2)
}
