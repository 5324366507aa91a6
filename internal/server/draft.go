package server

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/smallbiznis/mystore/internal/catalog/domain"
	"github.com/smallbiznis/mystore/internal/catalog/schema"
	draftdomain "github.com/smallbiznis/mystore/internal/draft/domain"
	draftservice "github.com/smallbiznis/mystore/internal/draft/service"
	"github.com/smallbiznis/mystore/pkg/log/ctxlogger"
)

// draftLogContext tags the request context with the draft id from the path
// so every log line of the request carries it.
func draftLogContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := c.Param("id"); id != "" {
			c.Request = c.Request.WithContext(ctxlogger.ContextWithDraftID(c.Request.Context(), id))
		}
		c.Next()
	}
}

type imageView struct {
	PreviewID string `json:"previewId"`
	FileName  string `json:"fileName"`
	URL       string `json:"url,omitempty"`
}

type variantView struct {
	LocalID       string            `json:"localId"`
	Size          string            `json:"size"`
	SKU           string            `json:"sku"`
	Price         string            `json:"price"`
	StockQuantity string            `json:"stockQuantity"`
	SortOrder     string            `json:"sortOrder"`
	Errors        map[string]string `json:"errors,omitempty"`
}

type draftView struct {
	ID             string                    `json:"id"`
	State          draftdomain.State         `json:"state"`
	CategoryID     string                    `json:"categoryId"`
	Name           string                    `json:"name"`
	Description    string                    `json:"description"`
	ImageAlt       string                    `json:"imageAlt"`
	Image          *imageView                `json:"image,omitempty"`
	SecondaryImage *imageView                `json:"secondaryImage,omitempty"`
	Variants       []variantView             `json:"variants"`
	Errors         catalogdomain.FieldErrors `json:"errors"`
	Notice         string                    `json:"notice,omitempty"`
	Ack            string                    `json:"ack,omitempty"`
}

func newImageView(ref draftdomain.ImageRef) *imageView {
	if !ref.Attached() {
		return nil
	}
	return &imageView{PreviewID: ref.PreviewID, FileName: ref.FileName, URL: ref.URL}
}

// newDraftView renders a snapshot. Row errors are attached to their row by
// identity, the errors map keeps the positional keys.
func newDraftView(snap draftservice.Snapshot) draftView {
	d := snap.Draft
	view := draftView{
		ID:             snap.ID,
		State:          snap.State,
		CategoryID:     d.CategoryID,
		Name:           d.Name,
		Description:    d.Description,
		ImageAlt:       d.ImageAlt,
		Image:          newImageView(d.Image),
		SecondaryImage: newImageView(d.SecondaryImage),
		Variants:       make([]variantView, 0, len(d.Variants)),
		Errors:         snap.Errors,
		Notice:         snap.Notice,
		Ack:            snap.Ack,
	}
	rowErrors := map[int]map[string]string{}
	for path, msg := range snap.Errors {
		i, field, ok := schema.ParseVariantPath(path)
		if !ok {
			continue
		}
		if rowErrors[i] == nil {
			rowErrors[i] = map[string]string{}
		}
		rowErrors[i][field] = msg
	}
	for i, v := range d.Variants {
		view.Variants = append(view.Variants, variantView{
			LocalID:       v.LocalID.String(),
			Size:          v.Size,
			SKU:           v.SKU,
			Price:         v.Price.Text(),
			StockQuantity: v.StockQuantity.Text(),
			SortOrder:     v.SortOrder.Text(),
			Errors:        rowErrors[i],
		})
	}
	return view
}

func (s *Server) session(c *gin.Context) (*draftservice.Session, bool) {
	sess, err := s.drafts.Get(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) OpenDraft(c *gin.Context) {
	sess := s.drafts.Open()
	c.JSON(http.StatusCreated, gin.H{"data": newDraftView(sess.Snapshot())})
}

func (s *Server) GetDraft(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": newDraftView(sess.Snapshot())})
}

// UpdateDraft applies {"name": "...", "categoryId": "apparel", ...}.
func (s *Server) UpdateDraft(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	var req map[string]string
	if err := c.ShouldBindJSON(&req); err != nil || len(req) == 0 {
		AbortWithError(c, invalidRequestError())
		return
	}

	for _, key := range sortedKeys(req) {
		field, ok := draftdomain.ParseScalarField(key)
		if !ok {
			AbortWithError(c, newValidationError(key, "invalid_field", "unknown field"))
			return
		}
		if err := sess.SetField(field, req[key]); err != nil {
			AbortWithError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"data": newDraftView(sess.Snapshot())})
}

// CloseDraft tears the authoring view down.
func (s *Server) CloseDraft(c *gin.Context) {
	if err := s.drafts.Close(strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) AddVariant(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	id, err := sess.AddVariant()
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": newDraftView(sess.Snapshot()), "localId": id.String()})
}

// UpdateVariant applies {"price": "29.99", "sku": "TS-M", ...} to one row.
func (s *Server) UpdateVariant(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	id, err := draftdomain.ParseLocalID(c.Param("localId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	var req map[string]string
	if err := c.ShouldBindJSON(&req); err != nil || len(req) == 0 {
		AbortWithError(c, invalidRequestError())
		return
	}

	for _, key := range sortedKeys(req) {
		field, ok := draftdomain.ParseVariantField(key)
		if !ok {
			AbortWithError(c, newValidationError(key, "invalid_field", "unknown field"))
			return
		}
		if err := sess.UpdateVariant(id, field, req[key]); err != nil {
			AbortWithError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"data": newDraftView(sess.Snapshot())})
}

func (s *Server) RemoveVariant(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	id, err := draftdomain.ParseLocalID(c.Param("localId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if err := sess.RemoveVariant(id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": newDraftView(sess.Snapshot())})
}

func parseSlot(value string) (draftdomain.ImageSlot, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	slot := draftdomain.ImageSlot(n)
	if err != nil || !slot.Valid() {
		return 0, draftdomain.ErrInvalidSlot
	}
	return slot, nil
}

func (s *Server) UploadDraftImage(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	slot, err := parseSlot(c.Param("slot"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	file, header, err := formFile(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	defer file.Close()

	if _, err := sess.UploadImage(c.Request.Context(), slot, assetFrom(file, header)); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": newDraftView(sess.Snapshot())})
}

func (s *Server) RemoveDraftImage(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	slot, err := parseSlot(c.Param("slot"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if err := sess.RemoveImage(slot); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": newDraftView(sess.Snapshot())})
}

type submitDraftRequest struct {
	Outcome string `json:"outcome"`
}

// SubmitDraft runs the pipeline. Field failures and a failed create are
// both part of the result, not HTTP errors.
func (s *Server) SubmitDraft(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	var req submitDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	outcome, err := draftdomain.ParseOutcome(req.Outcome)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	res, err := sess.Submit(c.Request.Context(), outcome)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": res, "draft": newDraftView(sess.Snapshot())})
}

type cancelDraftRequest struct {
	Confirm bool `json:"confirm"`
}

// CancelDraft discards the draft only when the request confirms the
// discard prompt.
func (s *Server) CancelDraft(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	var req cancelDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	confirm := draftdomain.ConfirmFunc(func(context.Context, string) bool { return req.Confirm })
	discarded, err := sess.Cancel(c.Request.Context(), confirm)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if !discarded {
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"discarded": false, "prompt": draftservice.MsgDiscardPrompt}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"discarded": true}})
}

func (s *Server) DismissDraftAck(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	sess.DismissAck()
	c.Status(http.StatusNoContent)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
