package collections

import (
	"aidirectory-backend/internal/api/v1/common"
	"aidirectory-backend/internal/middleware"
	"aidirectory-backend/internal/models"
	"aidirectory-backend/internal/services"
	"aidirectory-backend/internal/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CreateCollection godoc
// @Summary Create a collection
// @Description Name is required and may not be blank
// @Tags collections
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body CreateCollectionRequest true "Collection"
// @Success 201 {object} utils.Response{data=models.Collection}
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Router /collections [post]
func CreateCollection(c *gin.Context) {
	var req CreateCollectionRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	collection, err := services.CreateCollection(middleware.CurrentUser(c).ID, req.Name, req.Description, req.IsPublic)
	if err != nil {
		common.RespondError(c, err, "Failed to create collection")
		return
	}
	c.JSON(http.StatusCreated, utils.NewCreatedResponse("Collection created successfully", collection))
}

// ListCollections godoc
// @Summary List my collections
// @Tags collections
// @Produce json
// @Security ApiKeyAuth
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} utils.Response{data=services.Page[models.Collection]}
// @Router /collections [get]
func ListCollections(c *gin.Context) {
	offset, limit := common.PageParams(c)
	page, err := services.ListCollections(middleware.CurrentUser(c).ID, offset, limit)
	if err != nil {
		common.RespondError(c, err, "Failed to fetch collections")
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Collections retrieved successfully", page))
}

// ListPublicCollections godoc
// @Summary Browse public collections
// @Tags collections
// @Produce json
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Items per page" default(20)
// @Param query query string false "Match name or description"
// @Success 200 {object} utils.Response{data=services.Page[models.Collection]}
// @Router /collections/public [get]
func ListPublicCollections(c *gin.Context) {
	offset, limit := common.PageParams(c)
	page, err := services.ListPublicCollections(offset, limit, c.Query("query"))
	if err != nil {
		common.RespondError(c, err, "Failed to fetch collections")
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Collections retrieved successfully", page))
}

// GetCollection godoc
// @Summary Get a collection
// @Description Public collections are visible to everyone, private ones only to their owner
// @Tags collections
// @Produce json
// @Param id path int true "Collection ID"
// @Success 200 {object} utils.Response{data=models.Collection}
// @Failure 404 {object} utils.Response
// @Router /collections/{id} [get]
func GetCollection(c *gin.Context) {
	id, ok := common.ParseID(c, "id")
	if !ok {
		return
	}
	collection, err := services.GetCollection(id, middleware.CurrentUser(c))
	if err != nil {
		common.RespondError(c, err, "Failed to fetch collection")
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Collection retrieved successfully", collection))
}

// UpdateCollection godoc
// @Summary Update a collection
// @Tags collections
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Collection ID"
// @Param body body UpdateCollectionRequest true "Fields to change"
// @Success 200 {object} utils.Response{data=models.Collection}
// @Failure 400 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /collections/{id} [put]
func UpdateCollection(c *gin.Context) {
	id, ok := common.ParseID(c, "id")
	if !ok {
		return
	}
	var req UpdateCollectionRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	collection, err := services.UpdateCollection(id, middleware.CurrentUser(c).ID, services.CollectionUpdate{
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		common.RespondError(c, err, "Failed to update collection")
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Collection updated successfully", collection))
}

// DeleteCollection godoc
// @Summary Delete a collection
// @Tags collections
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Collection ID"
// @Success 200 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /collections/{id} [delete]
func DeleteCollection(c *gin.Context) {
	id, ok := common.ParseID(c, "id")
	if !ok {
		return
	}
	if err := services.DeleteCollection(id, middleware.CurrentUser(c).ID); err != nil {
		common.RespondError(c, err, "Failed to delete collection")
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Collection deleted successfully", nil))
}

// AddItem godoc
// @Summary Add an item to a collection
// @Tags collections
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Collection ID"
// @Param body body AddItemRequest true "Item"
// @Success 201 {object} utils.Response{data=models.CollectionItem}
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Router /collections/{id}/items [post]
func AddItem(c *gin.Context) {
	id, ok := common.ParseID(c, "id")
	if !ok {
		return
	}
	var req AddItemRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	t, err := models.ParseContentType(req.Type)
	if err != nil {
		common.RespondError(c, services.ErrInvalidContentType, "")
		return
	}

	item, err := services.AddCollectionItem(id, middleware.CurrentUser(c).ID, t, req.ID, req.Note)
	if err != nil {
		common.RespondError(c, err, "Failed to add item")
		return
	}
	c.JSON(http.StatusCreated, utils.NewCreatedResponse("Item added successfully", item))
}

// RemoveItem godoc
// @Summary Remove an item from a collection
// @Tags collections
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Collection ID"
// @Param itemId path int true "Collection item ID"
// @Success 200 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /collections/{id}/items/{itemId} [delete]
func RemoveItem(c *gin.Context) {
	id, ok := common.ParseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := common.ParseID(c, "itemId")
	if !ok {
		return
	}
	if err := services.RemoveCollectionItem(id, middleware.CurrentUser(c).ID, itemID); err != nil {
		common.RespondError(c, err, "Failed to remove item")
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Item removed successfully", nil))
}
