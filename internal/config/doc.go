// Package config provides configuration types for faqtree.
package config
