package controllers

import (
	"fmt"

	"github.com/warped-finance/backend/pkg/models"
)

var (
	errInvalidID     = fmt.Errorf("%w: the ID in the path must be a positive integer", models.ErrValidation)
	errInvalidLimit  = fmt.Errorf("%w: the limit parameter must be a positive integer", models.ErrValidation)
	errTagsParameter = fmt.Errorf("%w: the tags parameter must contain at least one tag", models.ErrValidation)
)
