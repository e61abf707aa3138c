// Package connectors provides implementations of the ArticleSource interface
// for help-center platforms. Each connector knows how to page through the
// platform's article API and map records to domain articles.
package connectors
