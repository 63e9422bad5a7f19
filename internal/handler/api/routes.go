// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/sitecms-go/internal/middleware"
	"github.com/olegiv/sitecms-go/internal/model"
	"github.com/olegiv/sitecms-go/internal/ratelimit"
)

// Route patterns shared by the resource controllers.
const (
	RouteRoot   = "/"
	RouteID     = "/{id}"
	RouteSlug   = "/slug/{slug}"
	RoutePage   = "/{page}"
	RouteStatus = "/{id}/status"
	RouteNotes  = "/{id}/notes"
)

// Limiters groups the per-route request limiters. Nil limiters are skipped.
type Limiters struct {
	API     *ratelimit.Limiter
	Login   *ratelimit.Limiter
	Enquiry *ratelimit.Limiter
}

// crudHandlers are the standard resource endpoints.
type crudHandlers struct {
	List   http.HandlerFunc
	Get    http.HandlerFunc
	Create http.HandlerFunc
	Update http.HandlerFunc
	Delete http.HandlerFunc
}

// Routes mounts the API under r, which is expected to be the /api subrouter.
func (h *Handler) Routes(r chi.Router, lim Limiters) {
	auth := middleware.Authenticate(h.sessions, h.queries)
	optional := middleware.OptionalAuth(h.sessions, h.queries)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	limit := func(l *ratelimit.Limiter, key middleware.KeyFunc, msg string) func(http.Handler) http.Handler {
		if l == nil {
			return func(next http.Handler) http.Handler { return next }
		}
		return middleware.RateLimit(l, key, msg)
	}
	byIP := middleware.ByIP(h.trustProxy)
	byIPAndEmail := middleware.ByIPAndEmail(h.trustProxy)

	r.Use(limit(lim.API, byIP, "Too many requests from this IP, please try again later."))

	r.Route("/auth", func(r chi.Router) {
		loginLimit := limit(lim.Login, byIPAndEmail, "Too many login attempts, please try again later.")
		r.With(loginLimit).Post("/login", h.Login)
		r.With(loginLimit).Post("/forgot-password", h.ForgotPassword)
		r.Post("/refresh-token", h.RefreshToken)
		r.With(optional).Post("/logout", h.Logout)
		r.Post("/reset-password", h.ResetPassword)

		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Get("/me", h.Me)
			r.Put("/password", h.ChangePassword)
			r.With(adminOnly).Post("/register", h.Register)
		})
	})

	r.Route("/content", func(r chi.Router) {
		r.Get(RouteRoot, h.ListContent)
		r.Get(RoutePage, h.GetContentPage)
		r.Get(RoutePage+"/structure", h.GetContentStructure)
		r.Get(RoutePage+"/{section}", h.GetContentSection)

		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Put(RoutePage, h.PutContentPage)
			r.Put(RoutePage+"/seo", h.PutContentSEO)
			r.Put(RoutePage+"/{section}", h.PutContentSection)
			r.Delete(RoutePage+"/{section}", h.DeleteContentSection)
			r.With(adminOnly).Post("/initialize", h.InitializeContent)
			r.With(adminOnly).Post(RoutePage+"/reset", h.ResetContentPage)
		})
	})

	r.Route("/blogs", func(r chi.Router) {
		r.With(optional).Get("/categories", h.ListBlogCategories)
		r.With(optional).Get(RouteSlug, h.GetBlogBySlug)
		registerCRUD(r, auth, optional, adminOnly, crudHandlers{
			List: h.ListBlogs, Get: h.GetBlog, Create: h.CreateBlog, Update: h.UpdateBlog, Delete: h.DeleteBlog,
		}, false)
	})

	r.Route("/case-studies", func(r chi.Router) {
		r.With(optional).Get(RouteSlug, h.GetCaseStudyBySlug)
		registerCRUD(r, auth, optional, adminOnly, crudHandlers{
			List: h.ListCaseStudies, Get: h.GetCaseStudy, Create: h.CreateCaseStudy, Update: h.UpdateCaseStudy, Delete: h.DeleteCaseStudy,
		}, false)
	})

	r.Route("/testimonials", func(r chi.Router) {
		registerCRUD(r, auth, optional, adminOnly, crudHandlers{
			List: h.ListTestimonials, Get: h.GetTestimonial, Create: h.CreateTestimonial, Update: h.UpdateTestimonial, Delete: h.DeleteTestimonial,
		}, true)
	})

	r.Route("/team", func(r chi.Router) {
		registerCRUD(r, auth, optional, adminOnly, crudHandlers{
			List: h.ListTeamMembers, Get: h.GetTeamMember, Create: h.CreateTeamMember, Update: h.UpdateTeamMember, Delete: h.DeleteTeamMember,
		}, true)
	})

	r.Route("/clients", func(r chi.Router) {
		registerCRUD(r, auth, optional, adminOnly, crudHandlers{
			List: h.ListClients, Get: h.GetClient, Create: h.CreateClient, Update: h.UpdateClient, Delete: h.DeleteClient,
		}, true)
	})

	r.Route("/enquiries", func(r chi.Router) {
		r.With(limit(lim.Enquiry, middleware.ByIPAndUserAgent(h.trustProxy),
			"Too many enquiries submitted, please try again later.")).Post(RouteRoot, h.CreateEnquiry)

		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Get(RouteRoot, h.ListEnquiries)
			r.Get("/export", h.ExportEnquiries)
			r.Get("/stats", h.EnquiryStatistics)
			r.Get(RouteID, h.GetEnquiry)
			r.Patch(RouteStatus, h.UpdateEnquiryStatus)
			r.Post(RouteNotes, h.AddEnquiryNote)
			r.With(adminOnly).Delete(RouteID, h.DeleteEnquiry)
		})
	})

	r.Route("/media", func(r chi.Router) {
		r.Use(auth)
		r.Get(RouteRoot, h.ListMedia)
		r.Post(RouteRoot, h.UploadMedia)
		r.Get(RouteID, h.GetMedia)
		r.Put(RouteID, h.UpdateMedia)
		r.With(adminOnly).Delete(RouteID, h.DeleteMedia)
	})

	r.Route("/page-seo", func(r chi.Router) {
		r.Get("/page/{page}", h.GetPageSeoByPage)
		registerCRUD(r, auth, optional, adminOnly, crudHandlers{
			List: h.ListPageSeo, Get: h.GetPageSeo, Create: h.CreatePageSeo, Update: h.UpdatePageSeo, Delete: h.DeletePageSeo,
		}, true)
	})

	r.Route("/settings", func(r chi.Router) {
		r.Get(RouteRoot, h.GetSettings)
		r.With(auth, adminOnly).Put(RouteRoot, h.UpdateSettings)
	})

	r.With(auth, adminOnly).Get("/events", h.ListEvents)
}

// registerCRUD registers the standard resource routes. Lists are public with
// optional authentication; single-record reads are public only when
// publicGet is set. Writes need a login and deletes the admin role.
func registerCRUD(r chi.Router, auth, optional, adminOnly func(http.Handler) http.Handler, c crudHandlers, publicGet bool) {
	r.With(optional).Get(RouteRoot, c.List)
	if publicGet {
		r.With(optional).Get(RouteID, c.Get)
	} else {
		r.With(auth).Get(RouteID, c.Get)
	}
	r.With(auth).Post(RouteRoot, c.Create)
	r.With(auth).Put(RouteID, c.Update)
	r.With(auth, adminOnly).Delete(RouteID, c.Delete)
}
