package pdf

import "errors"

var (
	// Configuration errors.
	ErrInvalidConfig = errors.New("pdf: invalid configuration")

	// Resource errors.
	ErrFontNotFound   = errors.New("pdf: font not found")
	ErrColorProfile   = errors.New("pdf: invalid color profile")
	ErrImageNotFound  = errors.New("pdf: image not found")
	ErrImageFailed    = errors.New("pdf: failed to embed image")
	ErrConvertFailed  = errors.New("pdf: conversion failed")
	ErrDocumentClosed = errors.New("pdf: document is closed")

	// Input errors.
	ErrInvalidHTML = errors.New("pdf: invalid html")
)
