package server

// ProtoDefinition documents ResumeService for clients that generate stubs.
// The wire messages are google.protobuf.Struct, so the JSON shapes of the
// HTTP API apply unchanged.
const ProtoDefinition = `syntax = "proto3";

package resumerender.v1;

import "google/protobuf/empty.proto";
import "google/protobuf/struct.proto";

// ResumeService renders a resume into LaTeX source, an HTML preview and a PDF.
service ResumeService {
  // Compile takes a resume record:
  //   {name, email?, headline?, summary?, skills[], experience[{company, role, startDate?, endDate?, achievements[]}]}
  // and returns {previewHtml, pdfUrl, metadata{generatedAt, latexLength}}.
  rpc Compile(google.protobuf.Struct) returns (google.protobuf.Struct);

  // Latest returns the most recently compiled document, NOT_FOUND if none.
  rpc Latest(google.protobuf.Empty) returns (google.protobuf.Struct);
}
`
