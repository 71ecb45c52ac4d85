// Package letterstore implements dispatch.Store.
//
// Postgres keeps requests and responses in the letter_requests and
// letter_responses tables created by Migrations. Memory keeps them in process
// and is meant for tests and local runs without a database.
package letterstore
