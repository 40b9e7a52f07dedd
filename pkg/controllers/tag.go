package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/warped-finance/backend/pkg/httputil"
	"github.com/warped-finance/backend/pkg/models"
)

// RegisterTagRoutes registers the routes for tags with
// the RouterGroup that is passed.
func RegisterTagRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsTagList)
	r.GET("", GetTags)

	r.OPTIONS("/new", OptionsTagCreate)
	r.POST("/new", CreateTag)

	r.OPTIONS("/transactions-with-tags", OptionsTagList)
	r.GET("/transactions-with-tags", GetTransactionsWithTags)

	r.OPTIONS("/transactions-by-tags", OptionsTagList)
	r.GET("/transactions-by-tags", GetTransactionsByTags)

	r.OPTIONS("/per-transaction/:id", OptionsTransactionTags)
	r.PUT("/per-transaction/:id", SetTransactionTags)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Tags
// @Success		204
// @Router			/tags [options]
// @Router			/tags/transactions-with-tags [options]
// @Router			/tags/transactions-by-tags [options]
func OptionsTagList(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Tags
// @Success		204
// @Router			/tags/new [options]
func OptionsTagCreate(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Tags
// @Success		204
// @Param			id	path	string	true	"ID of the transaction"
// @Router			/tags/per-transaction/{id} [options]
func OptionsTransactionTags(c *gin.Context) {
	httputil.OptionsPut(c)
}

// @Summary		Get tags
// @Description	Returns all tags ordered by name
// @Tags			Tags
// @Produce		json
// @Success		200	{object}	TagListResponse
// @Failure		500	{object}	httputil.HTTPError
// @Router			/tags [get]
func GetTags(c *gin.Context) {
	tags, err := models.Tags(models.DB)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, TagListResponse{Data: tags})
}

// @Summary		Create tag
// @Description	Creates a new tag
// @Tags			Tags
// @Produce		json
// @Success		201	{object}	TagResponse
// @Failure		400	{object}	httputil.HTTPError
// @Failure		409	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			tag	body		TagCreate	true	"Tag"
// @Router			/tags/new [post]
func CreateTag(c *gin.Context) {
	var create TagCreate
	if err := httputil.BindData(c, &create); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	tag, err := models.CreateTag(models.DB, create.Name)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusCreated, TagResponse{Data: tag})
}

// @Summary		Get tagged transactions
// @Description	Returns the transactions that have at least one tag, most recent first
// @Tags			Tags
// @Produce		json
// @Success		200		{object}	TransactionListResponse
// @Failure		400		{object}	httputil.HTTPError
// @Failure		500		{object}	httputil.HTTPError
// @Param			limit	query		int	false	"Maximum number of transactions to return"
// @Router			/tags/transactions-with-tags [get]
func GetTransactionsWithTags(c *gin.Context) {
	limit, err := queryLimit(c)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	transactions, err := models.TransactionsWithTags(models.DB, limit)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, TransactionListResponse{Data: transactions})
}

// @Summary		Get transactions by tags
// @Description	Returns the transactions with any ("or", the default) or all ("and") of the tags
// @Tags			Tags
// @Produce		json
// @Success		200		{object}	TransactionListResponse
// @Failure		400		{object}	httputil.HTTPError
// @Failure		500		{object}	httputil.HTTPError
// @Param			tags	query		string	true	"Comma separated tag names"
// @Param			mode	query		string	false	"or (default) or and"
// @Router			/tags/transactions-by-tags [get]
func GetTransactionsByTags(c *gin.Context) {
	names := strings.Split(c.Query("tags"), ",")
	if strings.TrimSpace(c.Query("tags")) == "" {
		httputil.ErrorHandler(c, errTagsParameter)
		return
	}

	transactions, err := models.TransactionsByTags(models.DB, names, models.TagMode(strings.ToLower(c.Query("mode"))))
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, TransactionListResponse{Data: transactions})
}

// @Summary		Set tags of a transaction
// @Description	Replaces the tags of a transaction. Tags that do not exist yet are created.
// @Tags			Tags
// @Produce		json
// @Success		200		{object}	TransactionTagsResponse
// @Failure		400		{object}	httputil.HTTPError
// @Failure		404		{object}	httputil.HTTPError
// @Failure		500		{object}	httputil.HTTPError
// @Param			id		path		string			true	"ID of the transaction"
// @Param			tags	body		TransactionTags	true	"Tags"
// @Router			/tags/per-transaction/{id} [put]
func SetTransactionTags(c *gin.Context) {
	id, err := httputil.TransactionID(c, "id")
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	var update TransactionTags
	if err := httputil.BindData(c, &update); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	tags, err := models.SetTransactionTags(models.DB, id, update.Tags)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, TransactionTagsResponse{Data: TransactionTags{Tags: tags}})
}

// queryLimit returns the limit query parameter, 0 if it is not set.
func queryLimit(c *gin.Context) (int, error) {
	value := c.Query("limit")
	if value == "" {
		return 0, nil
	}

	limit, err := strconv.Atoi(value)
	if err != nil || limit < 1 {
		return 0, errInvalidLimit
	}

	return limit, nil
}
