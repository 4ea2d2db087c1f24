package contributions

import (
	"aidirectory-backend/internal/api/v1/common"
	"aidirectory-backend/internal/middleware"
	"aidirectory-backend/internal/models"
	"aidirectory-backend/internal/services"
	"aidirectory-backend/internal/utils"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Submit godoc
// @Summary Contribute content through a pull request
// @Description Validates the item, renders it as a markdown file and queues a pull request against the content repository
// @Tags contributions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body ContributionRequest true "Contribution"
// @Success 202 {object} utils.Response{data=models.Contribution}
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 503 {object} utils.Response
// @Router /contributions [post]
func Submit(c *gin.Context) {
	var req ContributionRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	t, err := models.ParseContentType(req.Type)
	if err != nil {
		common.RespondError(c, services.ErrInvalidContentType, "")
		return
	}

	item, _ := models.NewContent(t)
	if err := json.Unmarshal(req.Fields, item); err != nil {
		utils.RespondValidationError(c, []utils.ValidationErrorDetail{{
			Field:    "fields",
			Message:  "Fields do not match the " + t.Label() + " schema",
			Expected: string(t),
			Received: err.Error(),
		}})
		return
	}

	contribution, err := services.SubmitContribution(middleware.CurrentUser(c), t, item)
	if err != nil {
		common.RespondError(c, err, "Failed to submit contribution")
		return
	}
	c.JSON(http.StatusAccepted, utils.NewResponse(http.StatusAccepted, "Contribution queued", contribution))
}

// List godoc
// @Summary List my contributions
// @Tags contributions
// @Produce json
// @Security ApiKeyAuth
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} utils.Response{data=services.Page[models.Contribution]}
// @Router /contributions [get]
func List(c *gin.Context) {
	offset, limit := common.PageParams(c)
	page, err := services.ListUserContributions(middleware.CurrentUser(c).ID, offset, limit)
	if err != nil {
		common.RespondError(c, err, "Failed to fetch contributions")
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Contributions retrieved successfully", page))
}
