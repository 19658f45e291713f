// Package value defines the tagged-union Script value used by the plugin
// language: nil, boolean, number (f64), string, array, table, and function.
// Arrays and tables are reference types owned by the VM's tracked allocator;
// strings and numbers are copied by value.
package value
