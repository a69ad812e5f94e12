package handler

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/places-service/internal/pkg/errors"
	"github.com/places-service/internal/pkg/utils"
	"github.com/places-service/internal/pkg/validator"
	"github.com/places-service/internal/usecase"
	"github.com/places-service/internal/usecase/dto"
	"go.uber.org/zap"
)

// PlaceHandler - обработчик запросов импорта и поиска мест
type PlaceHandler struct {
	placeUC *usecase.PlaceUseCase
	logger  *zap.Logger
}

// NewPlaceHandler - создание нового PlaceHandler
func NewPlaceHandler(placeUC *usecase.PlaceUseCase, logger *zap.Logger) *PlaceHandler {
	return &PlaceHandler{
		placeUC: placeUC,
		logger:  logger,
	}
}

// Upload godoc
// @Summary Bulk-import places from a KML document
// @Description Принимает KML-документ (multipart-поле "file" либо сырое тело запроса) и сохраняет все placemark'и одним батчем
// @Tags Places
// @Accept octet-stream
// @Produce json
// @Success 200 {object} dto.UploadResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /v1/upload/ [post]
func (h *PlaceHandler) Upload(c *fiber.Ctx) error {
	data, err := h.uploadPayload(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.placeUC.ImportFromKML(c.Context(), data)
	if err != nil {
		return utils.SendError(c, err)
	}

	return c.JSON(result)
}

// uploadPayload достаёт KML либо из multipart-поля "file", либо из тела запроса
func (h *PlaceHandler) uploadPayload(c *fiber.Ctx) ([]byte, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		// Не multipart - вернёмся к сырому телу
		return c.Body(), nil
	}

	f, err := fileHeader.Open()
	if err != nil {
		h.logger.Warn("Failed to open uploaded file", zap.Error(err))
		return nil, errors.ErrInvalidRequest
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		h.logger.Warn("Failed to read uploaded file", zap.Error(err))
		return nil, errors.ErrInvalidRequest
	}

	return data, nil
}

// Search godoc
// @Summary Full-text search places
// @Description Полнотекстовый поиск по name+description, сортировка по name ASC, skip/limit - окно по выдаче
// @Tags Places
// @Accept json
// @Produce json
// @Param request body dto.SearchPlacesRequest true "Search parameters"
// @Success 200 {array} domain.Place
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /v1/search/ [post]
func (h *PlaceHandler) Search(c *fiber.Ctx) error {
	var req dto.SearchPlacesRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	places, err := h.placeUC.Search(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return c.JSON(places)
}

// Around godoc
// @Summary Find places within a radius of a point
// @Description Возвращает места в радиусе (в метрах) от точки (lon, lat), по возрастанию дистанции
// @Tags Places
// @Accept json
// @Produce json
// @Param request body dto.PlacesAroundRequest true "Center point and radius"
// @Success 200 {array} domain.PlaceWithDistance
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /v1/around/ [post]
func (h *PlaceHandler) Around(c *fiber.Ctx) error {
	var req dto.PlacesAroundRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	places, err := h.placeUC.Around(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return c.JSON(places)
}
