package upload

import (
	"aidirectory-backend/internal/api/v1/common"
	"aidirectory-backend/internal/services"
	"aidirectory-backend/internal/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetOSSToken godoc
// @Summary Get OSS STS Token
// @Description Temporary credentials for uploading content images straight to object storage
// @Tags common
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} utils.Response{data=services.STSCredentials}
// @Failure 401 {object} utils.Response
// @Failure 503 {object} utils.Response
// @Router /common/upload/token [get]
func GetOSSToken(c *gin.Context) {
	token, err := services.GetOSSTSToken()
	if err != nil {
		common.RespondError(c, err, "Failed to get OSS token")
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("OSS token retrieved successfully", token))
}
