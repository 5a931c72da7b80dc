package handler

import (
	"github.com/gin-gonic/gin"
	brandkitapp "github.com/luminform/atelier/internal/application/brandkit"
)

// BrandKitHandler handles the partner brand kit and logo uploads
type BrandKitHandler struct {
	BaseHandler
	brandKitService *brandkitapp.Service
}

// NewBrandKitHandler creates a new BrandKitHandler
func NewBrandKitHandler(brandKitService *brandkitapp.Service) *BrandKitHandler {
	return &BrandKitHandler{brandKitService: brandKitService}
}

// Get godoc
// @Summary      Get the brand kit
// @Description  Returns the default style when the partner has not saved one
// @Tags         brand-kit
// @Produce      json
// @Success      200 {object} APIResponse[brandkitapp.BrandKitResponse]
// @Security     BearerAuth
// @Router       /brand-kit [get]
func (h *BrandKitHandler) Get(c *gin.Context) {
	partnerID, _, ok := h.partnerSession(c)
	if !ok {
		return
	}
	resp, err := h.brandKitService.Get(c.Request.Context(), partnerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Upsert godoc
// @Summary      Save the brand kit
// @Tags         brand-kit
// @Accept       json
// @Produce      json
// @Param        request body brandkitapp.UpdateBrandKitRequest true "Style"
// @Success      200 {object} APIResponse[brandkitapp.BrandKitResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /brand-kit [put]
func (h *BrandKitHandler) Upsert(c *gin.Context) {
	partnerID, _, ok := h.partnerSession(c)
	if !ok {
		return
	}
	var req brandkitapp.UpdateBrandKitRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.brandKitService.Upsert(c.Request.Context(), partnerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// LogoUploadURL godoc
// @Summary      Presign a logo upload
// @Description  PUT the file to upload_url, then call the confirm endpoint with key
// @Tags         brand-kit
// @Accept       json
// @Produce      json
// @Param        request body brandkitapp.LogoUploadRequest true "File name"
// @Success      200 {object} APIResponse[brandkitapp.LogoUploadResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /brand-kit/logo/upload-url [post]
func (h *BrandKitHandler) LogoUploadURL(c *gin.Context) {
	partnerID, _, ok := h.partnerSession(c)
	if !ok {
		return
	}
	var req brandkitapp.LogoUploadRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.brandKitService.CreateLogoUploadURL(c.Request.Context(), partnerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ConfirmLogo godoc
// @Summary      Attach an uploaded logo
// @Tags         brand-kit
// @Accept       json
// @Produce      json
// @Param        request body brandkitapp.ConfirmLogoRequest true "Object key"
// @Success      200 {object} APIResponse[brandkitapp.BrandKitResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /brand-kit/logo/confirm [post]
func (h *BrandKitHandler) ConfirmLogo(c *gin.Context) {
	partnerID, _, ok := h.partnerSession(c)
	if !ok {
		return
	}
	var req brandkitapp.ConfirmLogoRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.brandKitService.ConfirmLogo(c.Request.Context(), partnerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
