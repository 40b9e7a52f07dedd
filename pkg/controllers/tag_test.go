package controllers_test

import (
	"net/http"

	"github.com/warped-finance/backend/internal/types"
	"github.com/warped-finance/backend/pkg/controllers"
	"github.com/warped-finance/backend/test"
)

func (suite *TestSuiteStandard) TestCreateTag() {
	recorder := test.Request(suite.T(), http.MethodPost, api+"/tags/new", controllers.TagCreate{Name: "Vacation"})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response controllers.TagResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal("vacation", response.Data.Name)

	recorder = test.Request(suite.T(), http.MethodPost, api+"/tags/new", controllers.TagCreate{Name: "vacation"})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusConflict)

	recorder = test.Request(suite.T(), http.MethodGet, api+"/tags", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var list controllers.TagListResponse
	test.DecodeResponse(suite.T(), &recorder, &list)
	suite.Require().Len(list.Data, 1)
	suite.Assert().Equal("vacation", list.Data[0].Name)
}

func (suite *TestSuiteStandard) TestSetTransactionTags() {
	suite.createTestCategory("groceries", "food")
	suite.createTestTransaction("00001", "-10", "groceries", types.NewDate(2023, 1, 1))
	suite.createTestTransaction("00002", "-20", "groceries", types.NewDate(2023, 1, 2))

	recorder := test.Request(suite.T(), http.MethodPut, api+"/tags/per-transaction/00001", controllers.TransactionTags{Tags: []string{"Family", "weekly", "family"}})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response controllers.TransactionTagsResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal([]string{"family", "weekly"}, response.Data.Tags)

	recorder = test.Request(suite.T(), http.MethodPut, api+"/tags/per-transaction/00002", controllers.TransactionTags{Tags: []string{"weekly"}})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	recorder = test.Request(suite.T(), http.MethodGet, api+"/tags/transactions-with-tags", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var transactions controllers.TransactionListResponse
	test.DecodeResponse(suite.T(), &recorder, &transactions)
	suite.Require().Len(transactions.Data, 2)
	suite.Assert().Equal("00002", transactions.Data[0].ID)

	recorder = test.Request(suite.T(), http.MethodGet, api+"/tags/transactions-with-tags?limit=1", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &transactions)
	suite.Assert().Len(transactions.Data, 1)

	recorder = test.Request(suite.T(), http.MethodGet, api+"/tags/transactions-with-tags?limit=none", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)

	recorder = test.Request(suite.T(), http.MethodGet, api+"/tags/transactions-by-tags?tags=family,weekly&mode=and", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &transactions)
	suite.Require().Len(transactions.Data, 1)
	suite.Assert().Equal("00001", transactions.Data[0].ID)
	suite.Assert().Equal([]string{"family", "weekly"}, transactions.Data[0].Tags)

	recorder = test.Request(suite.T(), http.MethodGet, api+"/tags/transactions-by-tags?tags=family,weekly", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &transactions)
	suite.Assert().Len(transactions.Data, 2)

	// Removing all tags
	recorder = test.Request(suite.T(), http.MethodPut, api+"/tags/per-transaction/00001", controllers.TransactionTags{Tags: []string{}})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal([]string{}, response.Data.Tags)
}

func (suite *TestSuiteStandard) TestTagErrors() {
	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"Empty tag name", http.MethodPost, "/tags/new", controllers.TagCreate{}, http.StatusBadRequest},
		{"Missing tags parameter", http.MethodGet, "/tags/transactions-by-tags", nil, http.StatusBadRequest},
		{"Invalid mode", http.MethodGet, "/tags/transactions-by-tags?tags=a&mode=xor", nil, http.StatusBadRequest},
		{"Invalid transaction ID", http.MethodPut, "/tags/per-transaction/1", controllers.TransactionTags{Tags: []string{"a"}}, http.StatusBadRequest},
		{"Unknown transaction", http.MethodPut, "/tags/per-transaction/00404", controllers.TransactionTags{Tags: []string{"a"}}, http.StatusNotFound},
	}

	for _, tt := range tests {
		recorder := test.Request(suite.T(), tt.method, api+tt.path, tt.body)
		test.AssertHTTPStatus(suite.T(), &recorder, tt.status)
	}
}

func (suite *TestSuiteStandard) TestTagOptions() {
	tests := []struct {
		path  string
		allow string
	}{
		{"/tags", "OPTIONS, GET"},
		{"/tags/new", "OPTIONS, POST"},
		{"/tags/transactions-with-tags", "OPTIONS, GET"},
		{"/tags/transactions-by-tags", "OPTIONS, GET"},
		{"/tags/per-transaction/00001", "OPTIONS, PUT"},
	}

	for _, tt := range tests {
		recorder := test.Request(suite.T(), http.MethodOptions, api+tt.path, nil)
		test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)
		suite.Assert().Equal(tt.allow, recorder.Header().Get("allow"), tt.path)
	}
}
