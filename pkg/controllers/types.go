package controllers

import (
	"github.com/warped-finance/backend/pkg/models"
)

type GroupListResponse struct {
	Data []models.Group `json:"data"` // List of groups
}

type GroupCategoriesResponse struct {
	Data []models.GroupWithCategories `json:"data"` // Groups with the names of their categories
}

type CategoryListResponse struct {
	Data []models.Category `json:"data"` // List of categories
}

type CategoryResponse struct {
	Data models.Category `json:"data"` // Data for the category
}

type CategoryGroupedResponse struct {
	Data []models.CategoryGroup `json:"data"` // Categories partitioned by group
}

type CategoryCreate struct {
	Name string `json:"name" example:"groceries"`
}

type CategoryRename struct {
	NewName string `json:"newName" example:"food and groceries"`
}

type CategoryRegroup struct {
	NewGroupID uint `json:"newGroupId" binding:"required" example:"2"`
}

type TagListResponse struct {
	Data []models.Tag `json:"data"` // List of tags
}

type TagResponse struct {
	Data models.Tag `json:"data"` // Data for the tag
}

type TagCreate struct {
	Name string `json:"name" example:"vacation"`
}

type TransactionTags struct {
	Tags []string `json:"tags" example:"vacation,family"`
}

type TransactionTagsResponse struct {
	Data TransactionTags `json:"data"` // The tags of the transaction after the update
}

type TransactionListResponse struct {
	Data []models.TransactionDetail `json:"data"` // List of transactions
}

type TransactionResponse struct {
	Data models.TransactionDetail `json:"data"` // Data for the transaction
}

type SplitCreate struct {
	Splits []models.Split `json:"splits" binding:"required"`
}

type SplitDeleteResponse struct {
	Data SplitDeleted `json:"data"`
}

type SplitDeleted struct {
	Deleted int64 `json:"deleted" example:"2"` // Number of parts that were deleted
}

type TransactionCategory struct {
	CategoryID uint `json:"categoryId" binding:"required" example:"3"`
}
