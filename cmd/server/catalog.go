package main

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Simplici0/printcost/internal/catalog"
	"github.com/Simplici0/printcost/internal/store"
)

var errCategoryExists = errors.New("category already exists")

func (s *server) handleListPrinters(w http.ResponseWriter, r *http.Request) {
	printers, err := s.store.ListPrinters(r.Context(), currentUser(r).ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, printers)
}

func (s *server) handleCreatePrinter(w http.ResponseWriter, r *http.Request) {
	var p catalog.Printer
	if err := decodeJSON(w, r, &p); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := validatePrinter(&p); err != nil {
		s.fail(w, r, err)
		return
	}

	owner := currentUser(r).ID
	created, err := s.store.CreatePrinter(r.Context(), owner, p)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.forget(r, owner)
	writeJSON(w, http.StatusCreated, created)
}

func (s *server) handleUpdatePrinter(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var p catalog.Printer
	if err := decodeJSON(w, r, &p); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := validatePrinter(&p); err != nil {
		s.fail(w, r, err)
		return
	}
	p.ID = id

	owner := currentUser(r).ID
	if err := s.store.UpdatePrinter(r.Context(), owner, p); err != nil {
		s.fail(w, r, err)
		return
	}
	s.forget(r, owner)
	writeJSON(w, http.StatusOK, p)
}

func (s *server) handleDeletePrinter(w http.ResponseWriter, r *http.Request) {
	s.deleteCatalogItem(w, r, s.store.DeletePrinter)
}

// filamentView adds the stock grade of a spool to listings.
type filamentView struct {
	catalog.Filament
	Level catalog.StockLevel `json:"stock_level"`
}

func (s *server) handleListFilaments(w http.ResponseWriter, r *http.Request) {
	filaments, err := s.store.ListFilaments(r.Context(), currentUser(r).ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]filamentView, 0, len(filaments))
	for _, f := range filaments {
		out = append(out, filamentView{Filament: f, Level: catalog.GradeStock(f.StockG, f.SpoolWeightG)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) handleCreateFilament(w http.ResponseWriter, r *http.Request) {
	var f catalog.Filament
	if err := decodeJSON(w, r, &f); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := validateFilament(&f); err != nil {
		s.fail(w, r, err)
		return
	}

	owner := currentUser(r).ID
	created, err := s.store.CreateFilament(r.Context(), owner, f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.forget(r, owner)
	writeJSON(w, http.StatusCreated, created)
}

func (s *server) handleUpdateFilament(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var f catalog.Filament
	if err := decodeJSON(w, r, &f); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := validateFilament(&f); err != nil {
		s.fail(w, r, err)
		return
	}
	f.ID = id

	owner := currentUser(r).ID
	if err := s.store.UpdateFilament(r.Context(), owner, f); err != nil {
		s.fail(w, r, err)
		return
	}
	s.forget(r, owner)
	writeJSON(w, http.StatusOK, f)
}

func (s *server) handleDeleteFilament(w http.ResponseWriter, r *http.Request) {
	s.deleteCatalogItem(w, r, s.store.DeleteFilament)
}

type supplyView struct {
	catalog.Supply
	Level catalog.StockLevel `json:"stock_level"`
}

func (s *server) handleListSupplies(kind store.SupplyKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := s.store.ListSupplies(r.Context(), currentUser(r).ID, kind)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		out := make([]supplyView, 0, len(items))
		for _, item := range items {
			out = append(out, supplyView{Supply: item, Level: catalog.GradeStock(item.Stock, item.TotalQuantity)})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func (s *server) handleCreateSupply(kind store.SupplyKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var item catalog.Supply
		if err := decodeJSON(w, r, &item); err != nil {
			s.fail(w, r, err)
			return
		}
		if err := validateSupply(&item); err != nil {
			s.fail(w, r, err)
			return
		}

		owner := currentUser(r).ID
		created, err := s.store.CreateSupply(r.Context(), owner, kind, item)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		s.forget(r, owner)
		writeJSON(w, http.StatusCreated, created)
	}
}

func (s *server) handleUpdateSupply(kind store.SupplyKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		var item catalog.Supply
		if err := decodeJSON(w, r, &item); err != nil {
			s.fail(w, r, err)
			return
		}
		if err := validateSupply(&item); err != nil {
			s.fail(w, r, err)
			return
		}
		item.ID = id

		owner := currentUser(r).ID
		if err := s.store.UpdateSupply(r.Context(), owner, kind, item); err != nil {
			s.fail(w, r, err)
			return
		}
		s.forget(r, owner)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *server) handleDeleteSupply(kind store.SupplyKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.deleteCatalogItem(w, r, func(ctx context.Context, owner, id int64) error {
			return s.store.DeleteSupply(ctx, owner, kind, id)
		})
	}
}

func (s *server) deleteCatalogItem(w http.ResponseWriter, r *http.Request, del func(ctx context.Context, owner, id int64) error) {
	id, err := parseID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	owner := currentUser(r).ID
	if err := del(r.Context(), owner, id); err != nil {
		s.fail(w, r, err)
		return
	}
	s.forget(r, owner)
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.store.ListCategories(r.Context(), currentUser(r).ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var c catalog.Category
	if err := decodeJSON(w, r, &c); err != nil {
		s.fail(w, r, err)
		return
	}
	owner := currentUser(r).ID
	if err := s.checkCategoryName(r, owner, &c); err != nil {
		s.fail(w, r, err)
		return
	}

	created, err := s.store.CreateCategory(r.Context(), owner, c)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var c catalog.Category
	if err := decodeJSON(w, r, &c); err != nil {
		s.fail(w, r, err)
		return
	}
	c.ID = id
	owner := currentUser(r).ID
	if err := s.checkCategoryName(r, owner, &c); err != nil {
		s.fail(w, r, err)
		return
	}

	if err := s.store.UpdateCategory(r.Context(), owner, c); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.DeleteCategory(r.Context(), currentUser(r).ID, id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// checkCategoryName trims the name and rejects case-insensitive duplicates
// among the owner's other categories.
func (s *server) checkCategoryName(r *http.Request, owner int64, c *catalog.Category) error {
	c.Name = strings.TrimSpace(c.Name)
	if err := checkRequired("name", c.Name); err != nil {
		return err
	}
	existing, err := s.store.ListCategories(r.Context(), owner)
	if err != nil {
		return err
	}
	for _, e := range existing {
		if e.ID != c.ID && strings.EqualFold(e.Name, c.Name) {
			return errCategoryExists
		}
	}
	return nil
}

func (s *server) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	cs, err := s.store.CompanySettings(r.Context(), currentUser(r).ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

func (s *server) handleSaveCompany(w http.ResponseWriter, r *http.Request) {
	var cs store.CompanySettings
	if err := decodeJSON(w, r, &cs); err != nil {
		s.fail(w, r, err)
		return
	}
	saved, err := s.store.SaveCompanySettings(r.Context(), currentUser(r).ID, cs)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}
