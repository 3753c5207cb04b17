package model

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownContentType = errors.New("unknown content type")

// ContentType names a kind of sidebar item. Values are the plural table names.
type ContentType string

const (
	ContentTypeChats   ContentType = "chats"
	ContentTypePrompts ContentType = "prompts"
	ContentTypeFiles   ContentType = "files"
	ContentTypeTools   ContentType = "tools"
	ContentTypeModels  ContentType = "models"
)

// ContentTypes lists every supported content type in display order.
var ContentTypes = []ContentType{
	ContentTypeChats,
	ContentTypePrompts,
	ContentTypeFiles,
	ContentTypeTools,
	ContentTypeModels,
}

func ParseContentType(s string) (ContentType, error) {
	ct := ContentType(strings.ToLower(strings.TrimSpace(s)))
	if !ct.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownContentType, s)
	}
	return ct, nil
}

func (c ContentType) Valid() bool {
	switch c {
	case ContentTypeChats, ContentTypePrompts, ContentTypeFiles, ContentTypeTools, ContentTypeModels:
		return true
	}
	return false
}

// Singular returns the noun used in user-facing messages ("prompt").
func (c ContentType) Singular() string {
	return strings.TrimSuffix(string(c), "s")
}

// HasWorkspaces reports whether items of this type can be linked to several
// workspaces. A chat always lives in the workspace it was created in.
func (c ContentType) HasWorkspaces() bool {
	return c.Valid() && c != ContentTypeChats
}

// ForeignKey is the association table column referencing the item ("prompt_id").
func (c ContentType) ForeignKey() string {
	return c.Singular() + "_id"
}

// AssociationTable is the item-workspace link table ("prompt_workspaces").
func (c ContentType) AssociationTable() string {
	return c.Singular() + "_workspaces"
}
