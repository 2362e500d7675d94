// Package helm installs chart releases into the provisioned cluster. Charts
// are downloaded at runtime from their official repositories, and the client
// talks to the cluster through in-memory kubeconfig bytes so nothing is ever
// written to the filesystem.
package helm
