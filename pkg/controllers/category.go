package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/warped-finance/backend/pkg/httputil"
	"github.com/warped-finance/backend/pkg/models"
)

// URIID is the ID of a resource in the path.
type URIID struct {
	ID uint `uri:"id" binding:"required"`
}

// RegisterCategoryRoutes registers the routes for categories with
// the RouterGroup that is passed.
func RegisterCategoryRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsCategoryList)
		r.GET("", GetCategories)
		r.POST("", CreateCategory)
	}

	r.OPTIONS("/grouped", OptionsCategoryGrouped)
	r.GET("/grouped", GetCategoriesGrouped)

	r.OPTIONS("/update/:currentName", OptionsCategoryUpdate)
	r.PUT("/update/:currentName", RenameCategory)

	r.OPTIONS("/:id/group", OptionsCategoryUpdate)
	r.PUT("/:id/group", RegroupCategory)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Categories
// @Success		204
// @Router			/categories [options]
func OptionsCategoryList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Categories
// @Success		204
// @Router			/categories/grouped [options]
func OptionsCategoryGrouped(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Categories
// @Success		204
// @Router			/categories/update/{currentName} [options]
// @Router			/categories/{id}/group [options]
func OptionsCategoryUpdate(c *gin.Context) {
	httputil.OptionsPut(c)
}

// @Summary		Get categories
// @Description	Returns all categories ordered by name
// @Tags			Categories
// @Produce		json
// @Success		200	{object}	CategoryListResponse
// @Failure		500	{object}	httputil.HTTPError
// @Router			/categories [get]
func GetCategories(c *gin.Context) {
	categories, err := models.Categories(models.DB)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, CategoryListResponse{Data: categories})
}

// @Summary		Create category
// @Description	Creates a new category in the "ungrouped" group
// @Tags			Categories
// @Produce		json
// @Success		201			{object}	CategoryResponse
// @Failure		400			{object}	httputil.HTTPError
// @Failure		409			{object}	httputil.HTTPError
// @Failure		500			{object}	httputil.HTTPError
// @Param			category	body		CategoryCreate	true	"Category"
// @Router			/categories [post]
func CreateCategory(c *gin.Context) {
	var create CategoryCreate
	if err := httputil.BindData(c, &create); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	category, err := models.CreateCategory(models.DB, create.Name)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusCreated, CategoryResponse{Data: category})
}

// @Summary		Get categories by group
// @Description	Returns the categories partitioned by their group, ordered by group ID and category name
// @Tags			Categories
// @Produce		json
// @Success		200	{object}	CategoryGroupedResponse
// @Failure		500	{object}	httputil.HTTPError
// @Router			/categories/grouped [get]
func GetCategoriesGrouped(c *gin.Context) {
	groups, err := models.CategoriesByGroup(models.DB)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, CategoryGroupedResponse{Data: groups})
}

// @Summary		Rename category
// @Description	Renames a category. If a category with the new name exists, the transactions are moved to it.
// @Tags			Categories
// @Produce		json
// @Success		200			{object}	CategoryResponse
// @Failure		400			{object}	httputil.HTTPError
// @Failure		404			{object}	httputil.HTTPError
// @Failure		409			{object}	httputil.HTTPError
// @Failure		500			{object}	httputil.HTTPError
// @Param			currentName	path		string			true	"Name of the category"
// @Param			category	body		CategoryRename	true	"New name"
// @Router			/categories/update/{currentName} [put]
func RenameCategory(c *gin.Context) {
	var rename CategoryRename
	if err := httputil.BindData(c, &rename); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	category, err := models.RenameCategory(models.DB, c.Param("currentName"), rename.NewName)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, CategoryResponse{Data: category})
}

// @Summary		Move category
// @Description	Moves a category to another group
// @Tags			Categories
// @Produce		json
// @Success		200			{object}	CategoryResponse
// @Failure		400			{object}	httputil.HTTPError
// @Failure		404			{object}	httputil.HTTPError
// @Failure		500			{object}	httputil.HTTPError
// @Param			id			path		uint			true	"ID of the category"
// @Param			category	body		CategoryRegroup	true	"Group"
// @Router			/categories/{id}/group [put]
func RegroupCategory(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		httputil.ErrorHandler(c, errInvalidID)
		return
	}

	var regroup CategoryRegroup
	if err := httputil.BindData(c, &regroup); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	category, err := models.RegroupCategory(models.DB, uri.ID, regroup.NewGroupID)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, CategoryResponse{Data: category})
}
