// Package repositories defines the repository interfaces for content entities.
// These repositories abstract the data persistence details, ensuring the core
// application is clean and decoupled from the database.
package repositories

import (
	"github.com/StackForgeHQ/stackforge-go/internal/domain/entities/content"
)

type PageRepository interface {
	FindByID(id string) (*content.PageNode, error)
	FindBySlug(slug string) (*content.PageNode, error)
	FindByIDs(ids []string) ([]*content.PageNode, error)
	FindAll() ([]*content.PageNode, error)
	Store(page *content.PageNode) error
	Update(page *content.PageNode) error
	Delete(id string) error
}

type NewsRepository interface {
	FindByID(id string) (*content.NewsNode, error)
	FindBySlug(slug string) (*content.NewsNode, error)
	FindAll() ([]*content.NewsNode, error)
	Store(news *content.NewsNode) error
	Update(news *content.NewsNode) error
	Delete(id string) error
}

type MemberRepository interface {
	FindByID(id string) (*content.MemberNode, error)
	FindByEmail(email string) (*content.MemberNode, error)
	FindAll() ([]*content.MemberNode, error)
	Store(member *content.MemberNode) error
	Update(member *content.MemberNode) error
	Delete(id string) error
}

type ImageFileRepository interface {
	FindByID(id string) (*content.ImageFileNode, error)
	FindByIDs(ids []string) ([]*content.ImageFileNode, error)
	FindAll() ([]*content.ImageFileNode, error)
	Store(file *content.ImageFileNode) error
	Update(file *content.ImageFileNode) error
	Delete(id string) error
}
