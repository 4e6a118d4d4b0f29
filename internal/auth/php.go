package auth

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/savaslabs/drupal-editor-agent/internal/domain"
)

// PHP snippets executed on the target site through `drush php:eval`.
// User-supplied strings are passed base64-encoded so quoting in field
// values can never break out of the snippet.

// phpString renders a Go string as a safe PHP expression.
func phpString(s string) string {
	return fmt.Sprintf(`base64_decode("%s")`, base64.StdEncoding.EncodeToString([]byte(s)))
}

// loadEntitySnippet prints the entity's identity and moderation state as
// JSON, or the literal "null" when the ID does not resolve.
func loadEntitySnippet(ref domain.EntityRef) string {
	return fmt.Sprintf(`
$entity = \Drupal::entityTypeManager()->getStorage(%s)->load(%d);
if ($entity) {
    print json_encode([
        'id' => (int) $entity->id(),
        'uuid' => $entity->uuid(),
        'bundle' => $entity->bundle(),
        'label' => $entity->label(),
        'published' => method_exists($entity, 'isPublished') ? $entity->isPublished() : NULL,
        'moderation_state' => $entity->hasField('moderation_state') ? $entity->get('moderation_state')->value : NULL,
    ]);
} else {
    print 'null';
}
`, phpString(ref.Type), ref.ID)
}

// fieldValueSnippet prints the raw value of one field as JSON so empty
// strings are distinguishable from missing entities and missing fields.
func fieldValueSnippet(ref domain.EntityRef, field string) string {
	return fmt.Sprintf(`
$entity = \Drupal::entityTypeManager()->getStorage(%s)->load(%d);
if (!$entity) {
    print json_encode(['found' => FALSE]);
} elseif (!$entity->hasField(%s)) {
    print json_encode(['found' => TRUE, 'has_field' => FALSE]);
} else {
    print json_encode([
        'found' => TRUE,
        'has_field' => TRUE,
        'value' => (string) ($entity->get(%s)->value ?? ''),
    ]);
}
`, phpString(ref.Type), ref.ID, phpString(field), phpString(field))
}

// stageRevisionSnippet applies field changes as a new revision in the given
// moderation state, leaving the current default (published) revision intact.
func stageRevisionSnippet(ref domain.EntityRef, changes map[string]string, reason, state string) (string, error) {
	changesJSON, err := json.Marshal(changes)
	if err != nil {
		return "", fmt.Errorf("failed to encode changes: %w", err)
	}

	return fmt.Sprintf(`
$changes = json_decode(%s, TRUE);
$reason = %s;
$state = %s;

$entity = \Drupal::entityTypeManager()->getStorage(%s)->load(%d);
if (!$entity) {
    print json_encode(['success' => FALSE, 'error' => 'not found']);
    return;
}

$entity->setNewRevision(TRUE);
if (method_exists($entity, 'setRevisionLogMessage')) {
    $entity->setRevisionLogMessage($reason);
}
if (method_exists($entity, 'setRevisionCreationTime')) {
    $entity->setRevisionCreationTime(time());
}

foreach ($changes as $field_name => $new_value) {
    if (!$entity->hasField($field_name)) {
        continue;
    }
    $field = $entity->get($field_name);
    $field_type = $field->getFieldDefinition()->getType();
    if ($field_type === 'text_with_summary') {
        $entity->set($field_name, ['value' => $new_value, 'format' => $field->format ?? 'basic_html']);
    } else {
        $entity->set($field_name, $new_value);
    }
}

if ($entity->hasField('moderation_state')) {
    $entity->set('moderation_state', $state);
}

try {
    $entity->save();
    print json_encode([
        'success' => TRUE,
        'id' => (int) $entity->id(),
        'revision_id' => (int) $entity->getRevisionId(),
        'moderation_state' => $entity->hasField('moderation_state') ? $entity->get('moderation_state')->value : $state,
    ]);
} catch (\Exception $e) {
    print json_encode(['success' => FALSE, 'error' => $e->getMessage()]);
}
`, phpString(string(changesJSON)), phpString(reason), phpString(state), phpString(ref.Type), ref.ID), nil
}

// mediaAltSnippet updates the alt text on a media entity's source image
// field, creating a new revision when the media type is revisionable.
func mediaAltSnippet(mid int, alt, reason string) string {
	return fmt.Sprintf(`
$alt = %s;
$reason = %s;

$media = \Drupal::entityTypeManager()->getStorage('media')->load(%d);
if (!$media) {
    print json_encode(['success' => FALSE, 'error' => 'not found']);
    return;
}

$source_field = $media->getSource()->getConfiguration()['source_field'] ?? 'field_media_image';
if (!$media->hasField($source_field)) {
    print json_encode(['success' => FALSE, 'error' => 'no image field found']);
    return;
}

$media->get($source_field)->alt = $alt;

if ($media->getEntityType()->isRevisionable()) {
    $media->setNewRevision(TRUE);
    $media->setRevisionLogMessage($reason);
}

try {
    $media->save();
    print json_encode([
        'success' => TRUE,
        'id' => (int) $media->id(),
        'revision_id' => (int) ($media->getRevisionId() ?? $media->id()),
    ]);
} catch (\Exception $e) {
    print json_encode(['success' => FALSE, 'error' => $e->getMessage()]);
}
`, phpString(alt), phpString(reason), mid)
}

// wrapPHP wraps a snippet for safe transport through a single shell
// argument: the code travels base64-encoded and is decoded on the far side.
func wrapPHP(code string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(code))
	return fmt.Sprintf(`eval(base64_decode("%s"));`, encoded)
}
