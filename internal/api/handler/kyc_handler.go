package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/solofunds/kyc-service/internal/api/metrics"
	"github.com/solofunds/kyc-service/internal/core/domain"
	"github.com/solofunds/kyc-service/internal/core/ports"
)

// maxUploadBytes caps document and selfie uploads.
const maxUploadBytes = 8 << 20

// KYCHandler handles the three verification step endpoints plus the status
// lookup. All error mapping happens in the central HTTP error handler; the
// handler only binds input and reports the step outcome metric.
type KYCHandler struct {
	service ports.KYCService
}

func NewKYCHandler(service ports.KYCService) *KYCHandler {
	return &KYCHandler{service: service}
}

// StepOne handles POST /kyc/step-one/.
//
// @Summary      Confirm basic identity information (step one)
// @Tags         kyc
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        user_id     formData  string  true  "Caller-supplied user identifier"
// @Param        ssn         formData  string  true  "Social security number (9 digits, dashes allowed)"
// @Param        first_name  formData  string  true  "Legal first name"
// @Param        last_name   formData  string  true  "Legal last name"
// @Param        dob         formData  string  true  "Date of birth, DD/MM/YYYY"
// @Success      200  {object}  envelope
// @Failure      400  {object}  envelope
// @Failure      403  {object}  envelope
// @Failure      409  {object}  envelope
// @Router       /kyc/step-one/ [post]
func (h *KYCHandler) StepOne(c echo.Context) error {
	var req stepOneRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrFieldsIncomplete
	}
	if err := c.Validate(&req); err != nil {
		return domain.ErrFieldsIncomplete
	}

	err := h.service.ConfirmBasicInfo(c.Request().Context(), ports.BasicInfoInput{
		UserID:    req.UserID,
		SSN:       req.SSN,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		DOB:       req.DOB,
	})
	observeStep(domain.StepBasicInfo, err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, envelope{Msg: msgBasicInfoConfirmed, Data: nil})
}

// StepTwo handles POST /kyc/step-two/.
//
// @Summary      Confirm identity document via OCR (step two)
// @Tags         kyc
// @Accept       mpfd
// @Produce      json
// @Param        user_id        formData  string  true  "Caller-supplied user identifier"
// @Param        document_type  formData  string  true  "passport | national ID | driver's license"
// @Param        document       formData  file    true  "Scanned identity document image"
// @Success      200  {object}  envelope
// @Failure      400  {object}  envelope
// @Failure      403  {object}  envelope
// @Failure      409  {object}  envelope
// @Failure      502  {object}  envelope
// @Router       /kyc/step-two/ [post]
func (h *KYCHandler) StepTwo(c echo.Context) error {
	var req stepTwoRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrFieldsIncomplete
	}
	if err := c.Validate(&req); err != nil {
		return domain.ErrFieldsIncomplete
	}
	document, err := formFile(c, "document")
	if err != nil {
		return err
	}

	err = h.service.ConfirmDocument(c.Request().Context(), ports.DocumentInput{
		UserID:       req.UserID,
		DocumentType: req.DocumentType,
		Document:     document,
	})
	observeStep(domain.StepDocument, err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, envelope{Msg: msgDocumentConfirmed, Data: nil})
}

// StepThree handles POST /kyc/step-three/.
//
// @Summary      Confirm liveness via face match (step three)
// @Tags         kyc
// @Accept       mpfd
// @Produce      json
// @Param        user_id  formData  string  true  "Caller-supplied user identifier"
// @Param        picture  formData  file    true  "Live-capture image of the user"
// @Success      200  {object}  envelope
// @Failure      400  {object}  envelope
// @Failure      403  {object}  envelope
// @Failure      409  {object}  envelope
// @Failure      502  {object}  envelope
// @Router       /kyc/step-three/ [post]
func (h *KYCHandler) StepThree(c echo.Context) error {
	var req stepThreeRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrFieldsIncomplete
	}
	if err := c.Validate(&req); err != nil {
		return domain.ErrFieldsIncomplete
	}
	picture, err := formFile(c, "picture")
	if err != nil {
		return err
	}

	err = h.service.ConfirmSelfie(c.Request().Context(), ports.SelfieInput{
		UserID:  req.UserID,
		Picture: picture,
	})
	observeStep(domain.StepSelfie, err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, envelope{Msg: msgSelfieConfirmed, Data: nil})
}

// Status handles GET /kyc/status/:user_id.
//
// @Summary      Look up a user's verification progress
// @Tags         kyc
// @Produce      json
// @Param        user_id  path      string  true  "User identifier"
// @Success      200  {object}  envelope
// @Failure      404  {object}  envelope
// @Router       /kyc/status/{user_id} [get]
func (h *KYCHandler) Status(c echo.Context) error {
	status, err := h.service.Status(c.Request().Context(), c.Param("user_id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, envelope{
		Msg: "verification status",
		Data: statusData{
			UserID:            status.UserID,
			VerificationLevel: status.VerificationLevel,
			FullyVerified:     status.FullyVerified,
		},
	})
}

// formFile reads an uploaded file into memory. A missing or empty upload is
// an incomplete form; an oversized one is rejected outright.
func formFile(c echo.Context, name string) ([]byte, error) {
	fh, err := c.FormFile(name)
	if err != nil {
		return nil, domain.ErrFieldsIncomplete
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload %q: %w", name, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload %q: %w", name, err)
	}
	if len(data) == 0 {
		return nil, domain.ErrFieldsIncomplete
	}
	if len(data) > maxUploadBytes {
		return nil, echo.NewHTTPError(http.StatusRequestEntityTooLarge, "uploaded file is too large")
	}
	return data, nil
}

// observeStep records the step outcome metric.
func observeStep(step domain.Step, err error) {
	metrics.StepsProcessedTotal.WithLabelValues(step.String(), domain.Outcome(err)).Inc()
}
