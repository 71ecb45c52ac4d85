package template

import "errors"

var (
	ErrInvalidKey            = errors.New("template: invalid template key")
	ErrInvalidVersion        = errors.New("template: invalid template version")
	ErrTemplateNotRegistered = errors.New("template: template is not registered")
	ErrDuplicateTemplate     = errors.New("template: template registered twice")
	ErrInvalidRegistry       = errors.New("template: invalid registry file")
)
