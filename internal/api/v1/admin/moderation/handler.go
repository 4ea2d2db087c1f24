package moderation

import (
	"aidirectory-backend/internal/api/v1/common"
	"aidirectory-backend/internal/models"
	"aidirectory-backend/internal/services"
	"aidirectory-backend/internal/utils"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ListPending godoc
// @Summary Moderation queue
// @Description Pending items grouped by content type, oldest first. Each type is paged with the same offset and limit. Admin only.
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param offset query int false "Offset within each type"
// @Param limit query int false "Page size per type (max 100)"
// @Success 200 {object} utils.Response{data=[]services.PendingGroup}
// @Failure 401 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /admin/pending [get]
func ListPending(c *gin.Context) {
	offset, limit := common.PageParams(c)
	groups, err := services.ListPendingContent(c.Request.Context(), offset, limit)
	if err != nil {
		common.RespondError(c, err, "Failed to fetch pending content")
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Pending content retrieved successfully", groups))
}

// ExportContent godoc
// @Summary Export content
// @Description Export every row of one content type to CSV. Admin only.
// @Tags admin
// @Produce text/csv
// @Security ApiKeyAuth
// @Param type path string true "Content type"
// @Success 200 {string} string "CSV content"
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /admin/export/{type} [get]
func ExportContent(c *gin.Context) {
	t, err := models.ParseContentType(c.Param("type"))
	if err != nil {
		common.RespondError(c, services.ErrInvalidContentType, "")
		return
	}

	csvContent, err := services.ExportContentCSV(t)
	if err != nil {
		common.RespondError(c, err, "Failed to generate CSV")
		return
	}

	filename := fmt.Sprintf("%s_%s.csv", t.Dir(), time.Now().Format("20060102150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv", csvContent)
}
