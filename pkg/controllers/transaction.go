package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/warped-finance/backend/pkg/httputil"
	"github.com/warped-finance/backend/pkg/models"
)

// recentTransactions is the number of transactions returned by /last-20.
const recentTransactions = 20

// RegisterTransactionRoutes registers the routes for transactions with
// the RouterGroup that is passed.
func RegisterTransactionRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsTransactionList)
		r.GET("", GetTransactions)
	}

	r.OPTIONS("/last-20", OptionsTransactionList)
	r.GET("/last-20", GetRecentTransactions)

	r.OPTIONS("/category/:name", OptionsTransactionList)
	r.GET("/category/:name", GetTransactionsByCategory)

	r.OPTIONS("/new", OptionsTransactionCreate)
	r.POST("/new", CreateTransaction)

	// Transaction with ID
	{
		r.OPTIONS("/id/:id", OptionsTransactionDetail)
		r.GET("/id/:id", GetTransaction)
		r.PUT("/id/:id", UpdateTransaction)

		r.PUT("/:id/category", UpdateTransactionCategory)
		r.DELETE("/:id", DeleteTransaction)
	}

	// Splits
	{
		r.OPTIONS("/split/:id", OptionsTransactionCreate)
		r.POST("/split/:id", SplitTransaction)

		r.OPTIONS("/id/:id/splits", OptionsTransactionSplits)
		r.DELETE("/id/:id/splits", DeleteSplitTransactions)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Router			/transactions [options]
// @Router			/transactions/last-20 [options]
// @Router			/transactions/category/{name} [options]
func OptionsTransactionList(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Router			/transactions/new [options]
// @Router			/transactions/split/{id} [options]
func OptionsTransactionCreate(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Param			id	path		string	true	"ID of the transaction"
// @Router			/transactions/id/{id} [options]
func OptionsTransactionDetail(c *gin.Context) {
	_, err := models.GetTransaction(models.DB, c.Param("id"))
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	httputil.OptionsGetPut(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Param			id	path	string	true	"ID of the split transaction"
// @Router			/transactions/id/{id}/splits [options]
func OptionsTransactionSplits(c *gin.Context) {
	httputil.OptionsDelete(c)
}

// @Summary		Get transactions
// @Description	Returns the transactions matching the filter, most recent first
// @Tags			Transactions
// @Produce		json
// @Success		200			{object}	TransactionListResponse
// @Failure		400			{object}	httputil.HTTPError
// @Failure		500			{object}	httputil.HTTPError
// @Param			categories	query		string	false	"Category names, separated by dots"
// @Param			startDate	query		string	false	"First date to include, YYYY-MM-DD"
// @Param			endDate		query		string	false	"Last date to include, YYYY-MM-DD"
// @Param			minAmount	query		string	false	"Minimum amount"
// @Param			maxAmount	query		string	false	"Maximum amount"
// @Param			limit		query		int		false	"Maximum number of transactions to return"
// @Router			/transactions [get]
func GetTransactions(c *gin.Context) {
	var filter models.TransactionFilter
	var err error

	if categories := c.Query("categories"); categories != "" {
		filter.Categories = strings.Split(categories, ".")
	}

	if filter.StartDate, err = httputil.QueryDate(c, "startDate"); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	if filter.EndDate, err = httputil.QueryDate(c, "endDate"); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	if filter.MinAmount, err = httputil.QueryDecimal(c, "minAmount"); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	if filter.MaxAmount, err = httputil.QueryDecimal(c, "maxAmount"); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	if filter.Limit, err = queryLimit(c); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	transactions, err := models.ListTransactions(models.DB, filter)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, TransactionListResponse{Data: transactions})
}

// @Summary		Get recent transactions
// @Description	Returns the 20 most recent transactions
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	TransactionListResponse
// @Failure		500	{object}	httputil.HTTPError
// @Router			/transactions/last-20 [get]
func GetRecentTransactions(c *gin.Context) {
	transactions, err := models.RecentTransactions(models.DB, recentTransactions)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, TransactionListResponse{Data: transactions})
}

// @Summary		Get transactions of a category
// @Description	Returns all transactions of the category, most recent first
// @Tags			Transactions
// @Produce		json
// @Success		200		{object}	TransactionListResponse
// @Failure		404		{object}	httputil.HTTPError
// @Failure		500		{object}	httputil.HTTPError
// @Param			name	path		string	true	"Name of the category"
// @Router			/transactions/category/{name} [get]
func GetTransactionsByCategory(c *gin.Context) {
	transactions, err := models.TransactionsByCategory(models.DB, c.Param("name"))
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, TransactionListResponse{Data: transactions})
}

// @Summary		Get transaction
// @Description	Returns a transaction with the names of its category, group and tags
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	TransactionResponse
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			id	path		string	true	"ID of the transaction"
// @Router			/transactions/id/{id} [get]
func GetTransaction(c *gin.Context) {
	transaction, err := models.GetTransaction(models.DB, c.Param("id"))
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, TransactionResponse{Data: transaction})
}

// @Summary		Create transaction
// @Description	Creates a manually entered transaction. Without ID, the next free ID is used.
// @Tags			Transactions
// @Produce		json
// @Success		201			{object}	TransactionResponse
// @Failure		400			{object}	httputil.HTTPError
// @Failure		409			{object}	httputil.HTTPError
// @Failure		500			{object}	httputil.HTTPError
// @Param			transaction	body		models.TransactionInput	true	"Transaction"
// @Router			/transactions/new [post]
func CreateTransaction(c *gin.Context) {
	var input models.TransactionInput
	if err := httputil.BindData(c, &input); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	transaction, err := models.InsertTransaction(models.DB, input)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusCreated, TransactionResponse{Data: transaction})
}

// @Summary		Update transaction
// @Description	Updates the fields of a transaction that are set in the body
// @Tags			Transactions
// @Produce		json
// @Success		200			{object}	TransactionResponse
// @Failure		400			{object}	httputil.HTTPError
// @Failure		404			{object}	httputil.HTTPError
// @Failure		409			{object}	httputil.HTTPError
// @Failure		500			{object}	httputil.HTTPError
// @Param			id			path		string						true	"ID of the transaction"
// @Param			transaction	body		models.TransactionUpdate	true	"Transaction"
// @Router			/transactions/id/{id} [put]
func UpdateTransaction(c *gin.Context) {
	id, err := httputil.TransactionID(c, "id")
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	var update models.TransactionUpdate
	if err := httputil.BindData(c, &update); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	transaction, err := models.UpdateTransaction(models.DB, id, update)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, TransactionResponse{Data: transaction})
}

// @Summary		Update category of transaction
// @Description	Assigns the transaction to another category
// @Tags			Transactions
// @Produce		json
// @Success		200			{object}	TransactionResponse
// @Failure		400			{object}	httputil.HTTPError
// @Failure		404			{object}	httputil.HTTPError
// @Failure		500			{object}	httputil.HTTPError
// @Param			id			path		string				true	"ID of the transaction"
// @Param			category	body		TransactionCategory	true	"Category"
// @Router			/transactions/{id}/category [put]
func UpdateTransactionCategory(c *gin.Context) {
	id, err := httputil.TransactionID(c, "id")
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	var update TransactionCategory
	if err := httputil.BindData(c, &update); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	transaction, err := models.UpdateTransactionCategory(models.DB, id, update.CategoryID)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, TransactionResponse{Data: transaction})
}

// @Summary		Delete transaction
// @Description	Deletes a transaction together with its split parts
// @Tags			Transactions
// @Success		204
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		409	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			id	path		string	true	"ID of the transaction"
// @Router			/transactions/{id} [delete]
func DeleteTransaction(c *gin.Context) {
	err := models.DeleteTransaction(models.DB, c.Param("id"))
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary		Split transaction
// @Description	Splits a transaction into parts whose amounts sum up to the amount of the transaction
// @Tags			Transactions
// @Produce		json
// @Success		201		{object}	TransactionListResponse
// @Failure		400		{object}	httputil.HTTPError
// @Failure		404		{object}	httputil.HTTPError
// @Failure		409		{object}	httputil.HTTPError
// @Failure		500		{object}	httputil.HTTPError
// @Param			id		path		string		true	"ID of the transaction"
// @Param			splits	body		SplitCreate	true	"Splits"
// @Router			/transactions/split/{id} [post]
func SplitTransaction(c *gin.Context) {
	id, err := httputil.TransactionID(c, "id")
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	var create SplitCreate
	if err := httputil.BindData(c, &create); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	children, err := models.SplitTransaction(models.DB, id, create.Splits)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	ids := make([]string, 0, len(children))
	for _, child := range children {
		ids = append(ids, child.ID)
	}

	details, err := models.TransactionsByID(models.DB, ids)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusCreated, TransactionListResponse{Data: details})
}

// @Summary		Remove split
// @Description	Deletes the parts of a split transaction, which becomes a regular transaction again
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	SplitDeleteResponse
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		409	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			id	path		string	true	"ID of the split transaction"
// @Router			/transactions/id/{id}/splits [delete]
func DeleteSplitTransactions(c *gin.Context) {
	deleted, err := models.DeleteSplitTransactions(models.DB, c.Param("id"))
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, SplitDeleteResponse{Data: SplitDeleted{Deleted: deleted}})
}
