// Package config defines the format-agnostic workspace configuration model
// and the Loader interface that reads it.
//
// The `config.Model` is the single source of settings for the generator,
// runner and processor. Concrete loaders, such as the HCL one, live in
// separate packages.
package config
