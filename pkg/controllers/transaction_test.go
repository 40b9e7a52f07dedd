package controllers_test

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/warped-finance/backend/internal/types"
	"github.com/warped-finance/backend/pkg/controllers"
	"github.com/warped-finance/backend/pkg/models"
	"github.com/warped-finance/backend/test"
)

func (suite *TestSuiteStandard) createTestTransactions() {
	suite.createTestCategory("groceries", "food")
	suite.createTestCategory("rent", "housing")

	suite.createTestTransaction("00001", "-40", "groceries", types.NewDate(2023, 1, 5))
	suite.createTestTransaction("00002", "-1200", "rent", types.NewDate(2023, 2, 1))
	suite.createTestTransaction("00003", "-15.5", "groceries", types.NewDate(2023, 2, 3))
	suite.createTestTransaction("00004", "2500", "", types.NewDate(2023, 2, 28))
}

func (suite *TestSuiteStandard) listTransactions(path string) []string {
	recorder := test.Request(suite.T(), http.MethodGet, api+path, nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response controllers.TransactionListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	ids := []string{}
	for _, t := range response.Data {
		ids = append(ids, t.ID)
	}
	return ids
}

func (suite *TestSuiteStandard) TestGetTransactions() {
	suite.createTestTransactions()

	tests := []struct {
		name string
		path string
		ids  []string
	}{
		{"All", "/transactions", []string{"00004", "00003", "00002", "00001"}},
		{"Categories", "/transactions?categories=groceries.rent", []string{"00003", "00002", "00001"}},
		{"Single category", "/transactions?categories=Groceries", []string{"00003", "00001"}},
		{"Start date", "/transactions?startDate=2023-02-01", []string{"00004", "00003", "00002"}},
		{"End date inclusive", "/transactions?endDate=2023-02-01", []string{"00002", "00001"}},
		{"Date range", "/transactions?startDate=2023-02-02&endDate=2023-02-27", []string{"00003"}},
		{"Amount range", "/transactions?minAmount=-100&maxAmount=0", []string{"00003", "00001"}},
		{"Limit", "/transactions?limit=2", []string{"00004", "00003"}},
		{"Recent", "/transactions/last-20", []string{"00004", "00003", "00002", "00001"}},
		{"By category", "/transactions/category/groceries", []string{"00003", "00001"}},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			suite.Assert().Equal(tt.ids, suite.listTransactions(tt.path))
		})
	}
}

func (suite *TestSuiteStandard) TestGetTransactionsErrors() {
	tests := []struct {
		path   string
		status int
	}{
		{"/transactions?startDate=yesterday", http.StatusBadRequest},
		{"/transactions?endDate=tomorrow", http.StatusBadRequest},
		{"/transactions?minAmount=lots", http.StatusBadRequest},
		{"/transactions?maxAmount=lots", http.StatusBadRequest},
		{"/transactions?limit=-1", http.StatusBadRequest},
		{"/transactions/category/books", http.StatusNotFound},
		{"/transactions/id/1", http.StatusBadRequest},
		{"/transactions/id/00404", http.StatusNotFound},
	}

	for _, tt := range tests {
		recorder := test.Request(suite.T(), http.MethodGet, api+tt.path, nil)
		test.AssertHTTPStatus(suite.T(), &recorder, tt.status)
	}
}

func (suite *TestSuiteStandard) TestGetTransaction() {
	suite.createTestTransactions()

	recorder := test.Request(suite.T(), http.MethodGet, api+"/transactions/id/00003", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response controllers.TransactionResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal("groceries", response.Data.Category)
	suite.Assert().Equal("food", response.Data.GroupName)
	suite.Assert().True(decimal.RequireFromString("-15.5").Equal(response.Data.Amount))
	suite.Assert().Equal("2023-02-03", response.Data.Date.String())
	suite.Assert().Equal([]string{}, response.Data.Tags)

	recorder = test.Request(suite.T(), http.MethodGet, api+"/transactions/id/00004", nil)
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal(models.UncategorizedName, response.Data.Category)
	suite.Assert().Equal(models.UngroupedName, response.Data.GroupName)
}

func (suite *TestSuiteStandard) TestCreateTransaction() {
	suite.createTestCategory("groceries", "food")

	recorder := test.Request(suite.T(), http.MethodPost, api+"/transactions/new", `{
		"date": "2023-03-01",
		"description": "farmers market",
		"amount": "-12.00",
		"category": "groceries",
		"tags": ["market", "Weekly"]
	}`)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response controllers.TransactionResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal("00001", response.Data.ID)
	suite.Assert().Equal(models.SourceManual, response.Data.Source)
	suite.Assert().Equal(1, response.Data.Quantity)
	suite.Assert().Equal([]string{"market", "weekly"}, response.Data.Tags)

	// The next ID is used when none is given
	recorder = test.Request(suite.T(), http.MethodPost, api+"/transactions/new", `{"date": "2023-03-02", "amount": "-1"}`)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal("00002", response.Data.ID)
	suite.Assert().Equal(models.UncategorizedName, response.Data.Category)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"Duplicate ID", `{"id": "00001", "date": "2023-03-01", "amount": "-1"}`, http.StatusConflict},
		{"Invalid ID", `{"id": "1", "date": "2023-03-01", "amount": "-1"}`, http.StatusBadRequest},
		{"No date", `{"amount": "-1"}`, http.StatusBadRequest},
		{"Unknown category", `{"date": "2023-03-01", "amount": "-1", "category": "books"}`, http.StatusBadRequest},
		{"Unparseable date", `{"date": "someday", "amount": "-1"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, http.MethodPost, api+"/transactions/new", tt.body)
			test.AssertHTTPStatus(t, &recorder, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestUpdateTransaction() {
	suite.createTestTransactions()

	recorder := test.Request(suite.T(), http.MethodPut, api+"/transactions/id/00001", `{"notes": "weekly shop", "amount": "-41", "category": "rent"}`)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response controllers.TransactionResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal("weekly shop", response.Data.Notes)
	suite.Assert().Equal("rent", response.Data.Category)
	suite.Assert().True(decimal.RequireFromString("-41").Equal(response.Data.Amount))
	suite.Assert().Equal("test transaction 00001", response.Data.Description, "Fields not in the body must not change")

	recorder = test.Request(suite.T(), http.MethodPut, api+"/transactions/id/00404", `{"notes": "x"}`)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)

	recorder = test.Request(suite.T(), http.MethodPut, api+"/transactions/id/00001", `{"category": "books"}`)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestUpdateTransactionCategory() {
	suite.createTestTransactions()
	rent, err := models.CategoryByName(models.DB, "rent")
	suite.Require().Nil(err)

	recorder := test.Request(suite.T(), http.MethodPut, api+"/transactions/00001/category", controllers.TransactionCategory{CategoryID: rent.ID})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response controllers.TransactionResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal("rent", response.Data.Category)
	suite.Assert().Equal("housing", response.Data.GroupName)

	recorder = test.Request(suite.T(), http.MethodPut, api+"/transactions/00001/category", controllers.TransactionCategory{CategoryID: 404})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)

	recorder = test.Request(suite.T(), http.MethodPut, api+"/transactions/00001/category", `{}`)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
	suite.Assert().Contains(test.DecodeError(suite.T(), recorder.Body.Bytes()), "categoryId is required")

	recorder = test.Request(suite.T(), http.MethodPut, api+"/transactions/x/category", controllers.TransactionCategory{CategoryID: rent.ID})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestDeleteTransaction() {
	suite.createTestTransactions()

	recorder := test.Request(suite.T(), http.MethodDelete, api+"/transactions/00001", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	recorder = test.Request(suite.T(), http.MethodDelete, api+"/transactions/00001", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)

	recorder = test.Request(suite.T(), http.MethodDelete, api+"/transactions/abc", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)

	suite.Assert().Equal([]string{"00004", "00003", "00002"}, suite.listTransactions("/transactions"))
}

func (suite *TestSuiteStandard) TestSplitTransaction() {
	suite.createTestTransactions()

	recorder := test.Request(suite.T(), http.MethodPost, api+"/transactions/split/00002", `{"splits": [
		{"amount": "-1000", "category": "rent"},
		{"amount": "-200", "category": "groceries", "description": "utilities"}
	]}`)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response controllers.TransactionListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().Len(response.Data, 2)
	suite.Assert().Equal("00002-1", response.Data[0].ID)
	suite.Assert().Equal("rent", response.Data[0].Category)
	suite.Assert().Equal("00002-2", response.Data[1].ID)
	suite.Assert().Equal("utilities", response.Data[1].Description)
	suite.Assert().Equal("00002", *response.Data[1].ParentID)

	var parent controllers.TransactionResponse
	recorder = test.Request(suite.T(), http.MethodGet, api+"/transactions/id/00002", nil)
	test.DecodeResponse(suite.T(), &recorder, &parent)
	suite.Assert().True(parent.Data.IsSplit)
	suite.Assert().Equal(models.UncategorizedName, parent.Data.Category)

	// Splitting twice is a conflict
	recorder = test.Request(suite.T(), http.MethodPost, api+"/transactions/split/00002", `{"splits": [{"amount": "-1200"}]}`)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusConflict)

	// The amount of a split transaction cannot be changed
	recorder = test.Request(suite.T(), http.MethodPut, api+"/transactions/id/00002", `{"amount": "-1"}`)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusConflict)

	// Parts cannot be deleted on their own
	recorder = test.Request(suite.T(), http.MethodDelete, api+"/transactions/00002-1", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusConflict)

	recorder = test.Request(suite.T(), http.MethodDelete, api+"/transactions/id/00002/splits", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var deleted controllers.SplitDeleteResponse
	test.DecodeResponse(suite.T(), &recorder, &deleted)
	suite.Assert().Equal(int64(2), deleted.Data.Deleted)

	recorder = test.Request(suite.T(), http.MethodDelete, api+"/transactions/id/00002/splits", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusConflict)
}

func (suite *TestSuiteStandard) TestSplitTransactionErrors() {
	suite.createTestTransactions()

	tests := []struct {
		name   string
		id     string
		body   string
		status int
	}{
		{"Amount mismatch", "00001", `{"splits": [{"amount": "-30"}, {"amount": "-5"}]}`, http.StatusBadRequest},
		{"No splits", "00001", `{"splits": []}`, http.StatusBadRequest},
		{"Unknown category", "00001", `{"splits": [{"amount": "-40", "category": "books"}]}`, http.StatusBadRequest},
		{"Unknown transaction", "00404", `{"splits": [{"amount": "-40"}]}`, http.StatusNotFound},
		{"Invalid ID", "404", `{"splits": [{"amount": "-40"}]}`, http.StatusBadRequest},
		{"Empty body", "00001", ``, http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, http.MethodPost, api+"/transactions/split/"+tt.id, tt.body)
			test.AssertHTTPStatus(t, &recorder, tt.status)
		})
	}

	// Nothing was changed by the failed splits
	transaction, err := models.GetTransaction(models.DB, "00001")
	suite.Require().Nil(err)
	suite.Assert().False(transaction.IsSplit)
	suite.Assert().Equal("groceries", transaction.Category)
}

func (suite *TestSuiteStandard) TestTransactionsClosedDB() {
	suite.CloseDB()

	recorder := test.Request(suite.T(), http.MethodGet, api+"/transactions", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusInternalServerError)

	recorder = test.Request(suite.T(), http.MethodGet, api+"/transactions/last-20", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusInternalServerError)
}

func (suite *TestSuiteStandard) TestTransactionOptions() {
	suite.createTestTransactions()

	tests := []struct {
		path   string
		status int
		allow  string
	}{
		{"/transactions", http.StatusNoContent, "OPTIONS, GET"},
		{"/transactions/last-20", http.StatusNoContent, "OPTIONS, GET"},
		{"/transactions/new", http.StatusNoContent, "OPTIONS, POST"},
		{"/transactions/id/00001", http.StatusNoContent, "OPTIONS, GET, PUT"},
		{"/transactions/id/00404", http.StatusNotFound, ""},
		{"/transactions/id/00001/splits", http.StatusNoContent, "OPTIONS, DELETE"},
		{"/transactions/split/00001", http.StatusNoContent, "OPTIONS, POST"},
	}

	for _, tt := range tests {
		recorder := test.Request(suite.T(), http.MethodOptions, api+tt.path, nil)
		test.AssertHTTPStatus(suite.T(), &recorder, tt.status)
		suite.Assert().Equal(tt.allow, recorder.Header().Get("allow"), tt.path)
	}
}
