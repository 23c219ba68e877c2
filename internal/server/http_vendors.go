package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/alfredjeanlab/vendorwatch/internal/events"
	"github.com/alfredjeanlab/vendorwatch/internal/idgen"
	"github.com/alfredjeanlab/vendorwatch/internal/model"
	"github.com/alfredjeanlab/vendorwatch/internal/monitor"
	"github.com/alfredjeanlab/vendorwatch/internal/store"
)

type createVendorInput struct {
	Name    string `json:"name"`
	Website string `json:"website"`
}

type updateVendorInput struct {
	Name    *string `json:"name"`
	Website *string `json:"website"`
}

// handleCreateVendor handles POST /v1/vendors.
func (s *VendorwatchServer) handleCreateVendor(w http.ResponseWriter, r *http.Request) {
	var in createVendorInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	now := time.Now().UTC()
	vendor := &model.Vendor{
		Name:      in.Name,
		Website:   in.Website,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := model.ValidateVendor(vendor); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	vendor.RootDomain = websiteRootDomain(vendor.Website)

	var err error
	if vendor.ID, err = idgen.Generate(idgen.PrefixVendor); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate vendor id")
		return
	}
	if err := s.store.CreateVendor(r.Context(), vendor); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create vendor")
		return
	}

	s.publishAndBroadcast(r.Context(), events.TopicVendorCreated, events.VendorCreated{Vendor: vendor})
	writeJSON(w, http.StatusCreated, vendor)
}

// handleListVendors handles GET /v1/vendors.
func (s *VendorwatchServer) handleListVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := s.store.ListVendors(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list vendors")
		return
	}
	if vendors == nil {
		vendors = []*model.Vendor{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"vendors": vendors,
		"total":   len(vendors),
	})
}

// handleGetVendor handles GET /v1/vendors/{id}.
func (s *VendorwatchServer) handleGetVendor(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	vendor, err := s.store.GetVendor(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "vendor not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get vendor")
		return
	}
	writeJSON(w, http.StatusOK, vendor)
}

// handleUpdateVendor handles PATCH /v1/vendors/{id}.
func (s *VendorwatchServer) handleUpdateVendor(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var in updateVendorInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	vendor, err := s.store.GetVendor(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "vendor not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get vendor")
		return
	}

	changes := make(map[string]any)
	if in.Name != nil {
		vendor.Name = *in.Name
		changes["name"] = *in.Name
	}
	if in.Website != nil {
		vendor.Website = *in.Website
		vendor.RootDomain = websiteRootDomain(*in.Website)
		changes["website"] = *in.Website
	}
	if len(changes) == 0 {
		writeError(w, http.StatusBadRequest, "no fields to update")
		return
	}
	if err := model.ValidateVendor(vendor); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	vendor.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateVendor(r.Context(), vendor); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "vendor not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update vendor")
		return
	}

	s.publishAndBroadcast(r.Context(), events.TopicVendorUpdated, events.VendorUpdated{Vendor: vendor, Changes: changes})
	writeJSON(w, http.StatusOK, vendor)
}

// handleDeleteVendor handles DELETE /v1/vendors/{id}. The store cascades the
// delete to the vendor's snapshots and risk events.
func (s *VendorwatchServer) handleDeleteVendor(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.DeleteVendor(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "vendor not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete vendor")
		return
	}

	s.publishAndBroadcast(r.Context(), events.TopicVendorDeleted, events.VendorDeleted{VendorID: id})
	w.WriteHeader(http.StatusNoContent)
}

// handleListSnapshots handles GET /v1/vendors/{id}/snapshots.
func (s *VendorwatchServer) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.store.GetVendor(r.Context(), id); errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "vendor not found")
		return
	} else if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get vendor")
		return
	}

	filter := model.SnapshotFilter{VendorID: id}
	filter.Limit, filter.Offset = pagination(r)

	snapshots, total, err := s.store.ListSnapshots(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list snapshots")
		return
	}
	if snapshots == nil {
		snapshots = []*model.Snapshot{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"snapshots": snapshots,
		"total":     total,
	})
}

// websiteRootDomain derives the registrable root domain from a website URL.
func websiteRootDomain(website string) string {
	u, err := url.Parse(website)
	if err != nil {
		return ""
	}
	return monitor.RootDomain(u.Hostname())
}

// pagination reads limit/offset query parameters.
func pagination(r *http.Request) (limit, offset int) {
	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			offset = n
		}
	}
	return limit, offset
}
