package controllers_test

import (
	"net/http"

	"github.com/warped-finance/backend/pkg/controllers"
	"github.com/warped-finance/backend/pkg/models"
	"github.com/warped-finance/backend/test"
)

func (suite *TestSuiteStandard) TestGroups() {
	suite.createTestCategory("groceries", "food")
	suite.createTestCategory("restaurants", "food")
	_, err := models.InsertOrFetchGroup(models.DB, "savings")
	suite.Require().Nil(err)

	recorder := test.Request(suite.T(), http.MethodGet, api+"/groups", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var groups controllers.GroupListResponse
	test.DecodeResponse(suite.T(), &recorder, &groups)
	suite.Require().Len(groups.Data, 3)
	suite.Assert().Equal(models.UngroupedName, groups.Data[0].Name)
	suite.Assert().Equal("food", groups.Data[1].Name)
	suite.Assert().Equal("savings", groups.Data[2].Name)

	recorder = test.Request(suite.T(), http.MethodGet, api+"/groups/groups-and-categories", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var withCategories controllers.GroupCategoriesResponse
	test.DecodeResponse(suite.T(), &recorder, &withCategories)
	suite.Require().Len(withCategories.Data, 3)
	suite.Assert().Equal([]string{models.UncategorizedName}, withCategories.Data[0].Categories)
	suite.Assert().Equal([]string{"groceries", "restaurants"}, withCategories.Data[1].Categories)
	suite.Assert().Equal([]string{}, withCategories.Data[2].Categories)
}

func (suite *TestSuiteStandard) TestGroupsClosedDB() {
	suite.CloseDB()

	for _, path := range []string{"/groups", "/groups/groups-and-categories"} {
		recorder := test.Request(suite.T(), http.MethodGet, api+path, nil)
		test.AssertHTTPStatus(suite.T(), &recorder, http.StatusInternalServerError)
		suite.Assert().Equal(models.ErrGeneral.Error(), test.DecodeError(suite.T(), recorder.Body.Bytes()))
	}
}

func (suite *TestSuiteStandard) TestGroupsOptions() {
	recorder := test.Request(suite.T(), http.MethodOptions, api+"/groups", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)
	suite.Assert().Equal("OPTIONS, GET", recorder.Header().Get("allow"))
}
