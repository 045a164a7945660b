package controllers

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/middlewares"
	"github.com/yeremiapane/reservation-app/utils"
)

const flashCookie = "flash"

// Flash is the one-shot banner shown after a redirect.
type Flash struct {
	Title   string
	Message string
	Error   bool
}

var flashes = map[string]Flash{
	"created":      {Title: "Reservation created", Message: "Your reservation has been successfully created."},
	"updated":      {Title: "Reservation updated", Message: "Your reservation has been successfully updated."},
	"deleted":      {Title: "Reservation cancelled", Message: "The reservation has been removed."},
	"signed_in":    {Title: "Signed in", Message: "You can now add and edit reservations."},
	"signed_out":   {Title: "Signed out", Message: "You have been signed out."},
	"login_failed": {Title: "Error", Message: "Sign-in did not complete. Please try again.", Error: true},
	"write_failed": {Title: "Error", Message: "There was a problem saving your reservation.", Error: true},
}

func setFlash(c *gin.Context, key string) {
	c.SetCookie(flashCookie, key, 60, "/", "", false, true)
}

// takeFlash reads and clears the pending flash, if any.
func takeFlash(c *gin.Context) *Flash {
	key, err := c.Cookie(flashCookie)
	if err != nil || key == "" {
		return nil
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)

	return flashFor(key)
}

func flashFor(key string) *Flash {
	f, ok := flashes[key]
	if !ok {
		return nil
	}
	return &f
}

// Pages renders the embedded templates. Every page is executed into a
// buffer first so a failed render becomes a clean 500 instead of half a page.
type Pages struct {
	Templates   *template.Template
	AuthEnabled bool
}

func NewPages(tmpl *template.Template, authEnabled bool) *Pages {
	return &Pages{Templates: tmpl, AuthEnabled: authEnabled}
}

// Render fills in what the header partial needs and renders name.
func (p *Pages) Render(c *gin.Context, code int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if principal, ok := middlewares.CurrentPrincipal(c); ok {
		data["Principal"] = &principal
	} else {
		data["Principal"] = nil
	}
	data["AuthEnabled"] = p.AuthEnabled
	if _, ok := data["Flash"]; !ok {
		data["Flash"] = takeFlash(c)
	}
	if _, ok := data["Title"]; !ok {
		data["Title"] = ""
	}

	var buf bytes.Buffer
	if err := p.Templates.ExecuteTemplate(&buf, name, data); err != nil {
		utils.ErrorLogger.WithError(err).WithField("template", name).Error("Failed to render page")
		if name == "error.html" {
			c.String(http.StatusInternalServerError, "Internal Server Error")
			return
		}
		p.Render(c, http.StatusInternalServerError, "error.html", gin.H{
			"Title":   "Error",
			"Message": "This page could not be displayed.",
		})
		return
	}
	c.Data(code, "text/html; charset=utf-8", buf.Bytes())
}

func (p *Pages) NotFound(c *gin.Context) {
	p.Render(c, http.StatusNotFound, "not_found.html", gin.H{"Title": "Not found"})
}

// Error logs err and shows message on the generic error page.
func (p *Pages) Error(c *gin.Context, err error, message string) {
	utils.ErrorLogger.WithError(err).WithField("path", c.Request.URL.Path).Error(message)
	p.Render(c, http.StatusInternalServerError, "error.html", gin.H{
		"Title":   "Error",
		"Message": message,
	})
}
